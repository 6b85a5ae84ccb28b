package log

const (
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"
	FieldService   = "service"

	FieldUserID   = "user_id"
	FieldRecipeID = "recipe_id"
	FieldAuthorID = "author_id"
	FieldKind     = "kind"
)
