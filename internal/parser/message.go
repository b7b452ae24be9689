package parser

import (
	"log"
	"strconv"
	"strings"

	"github.com/atikulmunna/warp/internal/model"
)

// parseCompilerMessage extracts a compiler diagnostic from a payload like
//
//	C:\file.cpp(53): error C2679: binary '=' : no operator found...
//
// The location part, "(" line "):", must be present, otherwise the
// payload is discarded. The numeric "C1234" code is optional: when the
// code region does not have the expected shape the message is still taken
// from the text after "):", just with a nil code.
func parseCompilerMessage(payload string) *model.CompilerMessage {
	closing := strings.Index(payload, "):")
	if closing == -1 {
		log.Printf("invalid compiler message format: %q", payload)
		return nil
	}
	opening := strings.LastIndexByte(payload[:closing], '(')
	if opening == -1 {
		log.Printf("invalid compiler message format: %q", payload)
		return nil
	}

	var code *int
	if codeStart := strings.Index(payload[closing:], " C"); codeStart != -1 {
		codeStart += closing
		if codeEnd := strings.Index(payload[codeStart:], ": "); codeEnd != -1 {
			code = tryParseInt(payload[codeStart+2 : codeStart+codeEnd])
		}
	}

	message := ""
	if closing+3 <= len(payload) {
		message = payload[closing+3:]
	}

	msg := &model.CompilerMessage{
		FileName:   model.NormalizePath(payload[:opening]),
		LineNumber: tryParseInt(payload[opening+1 : closing]),
		Code:       code,
		Message:    message,
	}
	msg.AddLinePayload(payload)
	return msg
}

// parseLinkerMessage extracts a linker diagnostic from a payload like
//
//	LINK : fatal error LNK1104: cannot open file '..\foo.lib'
//
// Missing "LNK" or the colon after it discards the payload.
func parseLinkerMessage(payload string) *model.LinkerMessage {
	lnkIndex := strings.Index(payload, "LNK")
	if lnkIndex == -1 {
		log.Printf("invalid linker message format: %q", payload)
		return nil
	}
	colonIndex := strings.IndexByte(payload[lnkIndex:], ':')
	if colonIndex == -1 {
		log.Printf("invalid linker message format: %q", payload)
		return nil
	}
	colonIndex += lnkIndex

	message := ""
	if colonIndex+2 <= len(payload) {
		message = payload[colonIndex+2:]
	}

	return &model.LinkerMessage{
		Code:    tryParseInt(payload[lnkIndex+3 : colonIndex]),
		Message: message,
	}
}

// tryParseInt parses a trimmed base-10 integer, or returns nil.
func tryParseInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}
