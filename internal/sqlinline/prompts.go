package sqlinline

const QInsertPrompt = `--sql f3408b66-7b6e-415c-9ee1-be71c2654b7f
insert into prompts(id, name, prompt, prompt_line, created_at, updated_at)
values ($1::uuid, coalesce(nullif($2::text, ''), 'Untitled Prompt'), coalesce($3::jsonb, '{}'::jsonb), $4::text, now(), now())
returning name, created_at, updated_at;
`

const QSelectPromptByID = `--sql e5dce057-4304-4bda-91e8-3589b4395539
select id::text, name, prompt, prompt_line, created_at, updated_at
from prompts
where id = $1::uuid;
`

const QListPrompts = `--sql 992cd9e6-0f96-45ff-ba00-c8fbc388eaa9
select id::text, name, prompt, prompt_line, created_at, updated_at
from prompts
order by updated_at desc;
`

const QDeletePrompt = `--sql 66c5226d-cb28-4093-a636-ce51a0ca1400
delete from prompts
where id = $1::uuid;
`
