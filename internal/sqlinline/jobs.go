package sqlinline

const QInsertJob = `--sql 7f3c2a9e-1b44-4c6f-9a2d-8e5b0c1d4f6a
insert into ingestion_jobs(
  id,
  name,
  description,
  status,
  ingestion_type,
  document_id,
  document_ids,
  configuration,
  progress,
  retry_count,
  max_retries,
  triggered_by
)
values ($1, $2, $3, $4, $5, nullif($6, '')::uuid, $7::uuid[], $8, $9, $10, $11, $12)
returning created_at, updated_at;
`

const QSelectJobByID = `--sql 0d8e4b72-6a91-4f3c-b5e7-2c9a1d0f8e3b
select
  id::text, name, description, status, ingestion_type,
  coalesce(document_id::text, ''), coalesce(document_ids, '{}')::text[],
  configuration, result, error_message,
  progress, retry_count, max_retries,
  started_at, completed_at, triggered_by, created_at, updated_at
from ingestion_jobs
where id = $1;
`

const QUpdateJobStatusIf = `--sql c4b8d1e6-3f72-45a9-8c0d-6e1a2b9f7d54
update ingestion_jobs
set status        = $2,
    result        = $3,
    error_message = $4,
    progress      = $5,
    retry_count   = $6,
    started_at    = $7,
    completed_at  = $8,
    updated_at    = now()
where id = $1
  and status = any($9::text[])
returning updated_at;
`

const QListJobs = `--sql 9e6a0d2f-7c18-4b53-a1e9-4d8b3c0f2a67
select
  id::text, name, description, status, ingestion_type,
  coalesce(document_id::text, ''), coalesce(document_ids, '{}')::text[],
  configuration, result, error_message,
  progress, retry_count, max_retries,
  started_at, completed_at, triggered_by, created_at, updated_at
from ingestion_jobs
where ($1 = '' or status = $1)
  and ($2 = '' or ingestion_type = $2)
  and ($3 = '' or triggered_by = $3)
order by created_at desc
limit $4 offset $5;
`

const QCountJobs = `--sql 2b5e8f0a-4d96-4c31-b7a8-1f0c9e6d3b72
select count(*)
from ingestion_jobs
where ($1 = '' or status = $1)
  and ($2 = '' or ingestion_type = $2)
  and ($3 = '' or triggered_by = $3);
`

const QJobStats = `--sql 6d0a3e7b-9f54-48c2-8b1e-5a2d7c4f0e93
select
  count(*),
  count(*) filter (where status = 'PENDING'),
  count(*) filter (where status = 'PROCESSING'),
  count(*) filter (where status = 'COMPLETED'),
  count(*) filter (where status = 'FAILED'),
  count(*) filter (where status = 'CANCELLED'),
  count(*) filter (where ingestion_type = 'SINGLE_DOCUMENT'),
  count(*) filter (where ingestion_type = 'BATCH_DOCUMENTS'),
  count(*) filter (where ingestion_type = 'REPROCESS'),
  coalesce(avg(extract(epoch from (completed_at - started_at)) * 1000)
    filter (where status = 'COMPLETED'
        and started_at is not null
        and completed_at is not null), 0)
from ingestion_jobs;
`

const QMarkStaleJobs = `--sql 8c2f6b1d-0e47-4a93-b6c5-3d9a8e0f1b26
update ingestion_jobs
set status        = 'FAILED',
    error_message = $2,
    completed_at  = now(),
    updated_at    = now()
where status = 'PROCESSING'
  and started_at < now() - $1::interval
returning id::text, coalesce(document_id::text, ''), coalesce(document_ids, '{}')::text[], ingestion_type;
`
