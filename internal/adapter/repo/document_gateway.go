package repo

import (
	"context"

	"docman/internal/domain"
	"docman/internal/infra"
	"docman/internal/sqlinline"
)

// DocumentGatewayPG implements domain.DocumentGateway against the
// documents table owned by the document service. The ingestion core only
// reads metadata and mirrors status; it never creates or deletes rows.
type DocumentGatewayPG struct {
	sql infra.SQLExecutor
}

// NewDocumentGateway creates a document gateway backed by PostgreSQL.
func NewDocumentGateway(sql infra.SQLExecutor) *DocumentGatewayPG {
	return &DocumentGatewayPG{sql: sql}
}

func (g *DocumentGatewayPG) Resolve(ctx context.Context, documentID string) (*domain.DocumentMeta, error) {
	row := g.sql.QueryRow(ctx, sqlinline.QSelectDocumentByID, documentID)
	var meta domain.DocumentMeta
	if err := row.Scan(
		&meta.ID,
		&meta.Title,
		&meta.FilePath,
		&meta.MimeType,
		&meta.FileSize,
		&meta.Status,
		&meta.CreatedAt,
		&meta.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &meta, nil
}

func (g *DocumentGatewayPG) SetStatus(ctx context.Context, documentID string, status domain.DocumentStatus) error {
	tag, err := g.sql.Exec(ctx, sqlinline.QUpdateDocumentStatus, documentID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
