package reddit

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotAuthenticated is returned when a listing call is made without a token.
var ErrNotAuthenticated = errors.New("not authenticated")

// ParseError reports a response body that is not the expected JSON shape.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
	Error       string `json:"error"`
}

type listingResponse struct {
	Kind string       `json:"kind"`
	Data *listingData `json:"data"`
}

type listingData struct {
	Modhash  string         `json:"modhash"`
	After    *string        `json:"after"`
	Before   *string        `json:"before"`
	Children []listingChild `json:"children"`
}

type listingChild struct {
	Kind string    `json:"kind"`
	Data entryData `json:"data"`
}

type entryData struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Thumbnail   string  `json:"thumbnail"`
	CreatedUTC  float64 `json:"created_utc"`
	NumComments int     `json:"num_comments"`
}

func parseToken(body string) (*Token, error) {
	var resp tokenResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, &ParseError{Op: "token", Err: err}
	}

	if resp.AccessToken == "" {
		if resp.Error != "" {
			return nil, &ParseError{Op: "token", Err: fmt.Errorf("server error %q", resp.Error)}
		}
		return nil, &ParseError{Op: "token", Err: errors.New("missing access_token")}
	}

	return &Token{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		ExpiresIn:   time.Duration(resp.ExpiresIn) * time.Second,
	}, nil
}
