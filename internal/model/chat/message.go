package chat

// Roles a stored turn may carry. The store only ever writes these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one role-tagged message within a session transcript.
// Ordering inside Session.Messages is insertion order and reconstructs
// the dialogue verbatim for the model.
type Turn struct {
	Role    string `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}
