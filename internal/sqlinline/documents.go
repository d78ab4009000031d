package sqlinline

const QSelectDocumentByID = `--sql 4a9d7e2c-5b80-4f16-a3d9-7e0b2c8f5a41
select id::text, title, file_path, mime_type, file_size, status, created_at, updated_at
from documents
where id = $1;
`

const QUpdateDocumentStatus = `--sql e1c5a8f3-2d64-4b07-9e8a-0c3f6d1b7e52
update documents
set status = $2,
    updated_at = now()
where id = $1;
`
