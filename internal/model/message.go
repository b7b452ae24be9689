package model

// CompilerMessage is one compiler warning or error extracted from a payload
// of the form "C:\file.cpp(53): error C2679: ...".
type CompilerMessage struct {
	// FileName is the normalized source file path.
	FileName string `json:"file_name"`

	// LineNumber is the source line, or nil if it did not parse.
	LineNumber *int `json:"line_number,omitempty"`

	// Code is the numeric part of the "C1234" code, or nil.
	Code *int `json:"code,omitempty"`

	Message string `json:"message"`

	// LinePayloads starts with the payload that produced this message,
	// followed by any indented continuation payloads.
	LinePayloads []string `json:"line_payloads,omitempty"`
}

// AddLinePayload appends a continuation payload to the message.
func (m *CompilerMessage) AddLinePayload(payload string) {
	m.LinePayloads = append(m.LinePayloads, payload)
}

// LinkerMessage is one linker warning or error, e.g.
// "LINK : fatal error LNK1104: cannot open file '..\foo.lib'".
// The known log dialect has no continuation lines for these.
type LinkerMessage struct {
	// Code is the numeric part of the "LNK1234" code, or nil.
	Code *int `json:"code,omitempty"`

	Message string `json:"message"`
}
