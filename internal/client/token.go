package client

import (
	"os"
	"strings"
)

// TokenProvider yields the bearer credential to attach to outgoing requests.
// An empty string means no credential is available; that is never an error
// here, the server decides authorization.
type TokenProvider interface {
	Token() string
}

// StaticToken always returns the same credential
type StaticToken string

// Token returns the static credential
func (s StaticToken) Token() string {
	return string(s)
}

// EnvToken reads the credential from an environment variable on every call
type EnvToken struct {
	Key string
}

// Token returns the current value of the environment variable
func (e EnvToken) Token() string {
	return strings.TrimSpace(os.Getenv(e.Key))
}

// FileToken reads the credential from a file on every call, so an externally
// rotated token is picked up without restarting
type FileToken struct {
	Path string
}

// Token returns the trimmed file contents, or empty when unreadable
func (f FileToken) Token() string {
	if f.Path == "" {
		return ""
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// TokenChain tries each provider in order and returns the first non-empty
// credential
type TokenChain []TokenProvider

// Token returns the first available credential in the chain
func (c TokenChain) Token() string {
	for _, p := range c {
		if t := p.Token(); t != "" {
			return t
		}
	}
	return ""
}
