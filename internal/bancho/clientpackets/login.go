package clientpackets

import (
	"fmt"
	"strconv"
	"strings"
)

// LoginRequest is the plaintext body of a token-less POST:
//
//	username\n
//	password_md5\n
//	version|utc_offset|display_city|client_hashes|pm_private\n
type LoginRequest struct {
	Username     string
	PasswordMD5  string
	OsuVersion   string
	UTCOffset    int
	ClientHashes string
	PMPrivate    bool
}

// ParseLoginRequest parses the three-record login body.
func ParseLoginRequest(body []byte) (*LoginRequest, error) {
	lines := strings.Split(string(body), "\n")
	if len(lines) < 3 {
		return nil, fmt.Errorf("login body has %d lines, want 3", len(lines))
	}

	username := strings.TrimSpace(lines[0])
	if username == "" {
		return nil, fmt.Errorf("empty username")
	}
	passwordMD5 := strings.TrimSpace(lines[1])
	if len(passwordMD5) != 32 {
		return nil, fmt.Errorf("password md5 has length %d, want 32", len(passwordMD5))
	}

	fields := strings.Split(lines[2], "|")
	if len(fields) < 5 {
		return nil, fmt.Errorf("client info has %d fields, want 5", len(fields))
	}

	utcOffset, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("parsing utc offset %q: %w", fields[1], err)
	}
	if utcOffset < -24 || utcOffset > 24 {
		return nil, fmt.Errorf("utc offset %d out of range", utcOffset)
	}

	return &LoginRequest{
		Username:     username,
		PasswordMD5:  passwordMD5,
		OsuVersion:   fields[0],
		UTCOffset:    utcOffset,
		ClientHashes: fields[3],
		PMPrivate:    strings.TrimSpace(fields[4]) == "1",
	}, nil
}
