package transport

// TaskCreateRequest is the POST /tasks payload. Action selects the lifecycle
// entry point: draft, submit, or assign.
type TaskCreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"due_date"`
	AssigneeIDs []string `json:"assignee_ids"`
	Action      string   `json:"action"`
}

// TaskUpdateRequest is the PUT /tasks/{id} payload. Omitted fields stay
// unchanged; action=submit additionally submits the task for approval.
type TaskUpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Priority    *string  `json:"priority"`
	Status      *string  `json:"status"`
	DueDate     *string  `json:"due_date"`
	AssigneeIDs []string `json:"assignee_ids"`
	Action      string   `json:"action"`
}

type RejectRequest struct {
	Reason string `json:"rejection_reason"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type RoleUpdateRequest struct {
	Role string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
}

// ActivityView is one rendered timeline entry.
type ActivityView struct {
	ID          string `json:"id"`
	ActorID     string `json:"actor_id,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}
