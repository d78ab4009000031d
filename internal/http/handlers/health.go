package handlers

import (
	"net/http"
	"time"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "docman",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
