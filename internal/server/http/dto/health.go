package dto

const (
	StatusRunning = "Server is running"
	StatusError   = "Error"

	DatabaseConnected    = "Connected"
	DatabaseDisconnected = "Disconnected"
	DatabaseUnknown      = "Unknown"
)

// HealthResponse reports liveness and store connectivity.
type HealthResponse struct {
	Success  bool         `json:"success"`
	Status   string       `json:"status"`
	Database string       `json:"database"`
	Error    *HealthError `json:"error,omitempty"`
}

// HealthError carries probe detail when verbose health is enabled.
type HealthError struct {
	Message string `json:"message"`
}

// HealthFailure is returned when the health handler itself fails.
func HealthFailure() HealthResponse {
	return HealthResponse{Success: false, Status: StatusError, Database: DatabaseUnknown}
}
