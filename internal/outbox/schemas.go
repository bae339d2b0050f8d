package outbox

const taskInstanceCreatedSchema = `{
  "type": "object",
  "title": "TaskInstanceCreated",
  "properties": {
    "instance_id": {"type": "string"},
    "activity_id": {"type": "string"},
    "resident_id": {"type": "string"},
    "owner_id": {"type": "string"},
    "date": {"type": "string", "format": "date"},
    "scheduled_time": {"type": "string"},
    "created_at": {"type": "string", "format": "date-time"}
  },
  "required": ["instance_id", "activity_id", "owner_id", "date", "created_at"],
  "additionalProperties": false
}`

const taskInstanceStatusChangedSchema = `{
  "type": "object",
  "title": "TaskInstanceStatusChanged",
  "properties": {
    "instance_id": {"type": "string"},
    "activity_id": {"type": "string"},
    "resident_id": {"type": "string"},
    "owner_id": {"type": "string"},
    "date": {"type": "string", "format": "date"},
    "status": {"type": "string", "enum": ["pending", "done"]},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["instance_id", "activity_id", "owner_id", "date", "status", "occurred_at"],
  "additionalProperties": false
}`
