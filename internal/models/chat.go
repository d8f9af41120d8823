package models

// ChatRequest is the body of POST /chat. Both fields are required.
type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// ChatResponse is the success payload of POST /chat. Simulated is true when
// the reply came from the offline fallback or the provider-error path rather
// than the live provider.
type ChatResponse struct {
	Reply     string `json:"reply"`
	Tone      Tone   `json:"tone"`
	Simulated bool   `json:"simulated"`
}
