package models

// RecoreState is the board state reported by GET /recore/state.
//
// Both fields are strings: on success they carry the trimmed helper binary
// output, on failure a fixed error literal, so a partial shell failure still
// produces a complete state response.
type RecoreState struct {
	SSHEnabled string `json:"ssh_enabled"`
	BootMedia  string `json:"boot_media"`
}

// SSHCheckResult reports whether sshd accepted a connection attempt.
type SSHCheckResult struct {
	Reachable bool   `json:"reachable"`
	Detail    string `json:"detail"`
}
