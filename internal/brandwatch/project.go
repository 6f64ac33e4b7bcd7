package brandwatch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ProjectSession scopes API calls to one project. It holds a UserSession
// for credentials and dispatch, plus the project resolved at construction;
// the project binding is immutable — target a different project by creating
// a new session.
type ProjectSession struct {
	user *UserSession

	// ProjectName and ProjectID identify the resolved project.
	ProjectName string
	ProjectID   int64

	// projectAddress is the path prefix for every project-level call,
	// "projects/<id>/".
	projectAddress string
}

// NewProjectSession authenticates and binds the session to the named
// project. The account's project list is scanned for the first exact name
// match; a missing project fails with *NotFoundError and no usable session
// is returned.
func NewProjectSession(ctx context.Context, creds Credentials, project string, opts ...Option) (*ProjectSession, error) {
	user, err := NewUserSession(ctx, creds, opts...)
	if err != nil {
		return nil, err
	}

	projects, err := user.Projects(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range projects {
		if p.Name == project {
			return &ProjectSession{
				user:           user,
				ProjectName:    p.Name,
				ProjectID:      p.ID,
				projectAddress: fmt.Sprintf("projects/%d/", p.ID),
			}, nil
		}
	}

	return nil, &NotFoundError{Project: project}
}

// User returns the underlying account-level session.
func (ps *ProjectSession) User() *UserSession {
	return ps.user
}

// Get makes a project-level GET request. The endpoint is relative to the
// project — the "projects/<id>/" prefix is added here, so don't re-append
// it.
func (ps *ProjectSession) Get(ctx context.Context, endpoint string, params url.Values) (any, error) {
	return ps.Request(ctx, http.MethodGet, endpoint, params, nil)
}

// Delete makes a project-level DELETE request.
func (ps *ProjectSession) Delete(ctx context.Context, endpoint string, params url.Values) (any, error) {
	return ps.Request(ctx, http.MethodDelete, endpoint, params, nil)
}

// Post makes a project-level POST request with a JSON body.
func (ps *ProjectSession) Post(ctx context.Context, endpoint string, params url.Values, body any) (any, error) {
	return ps.Request(ctx, http.MethodPost, endpoint, params, body)
}

// Put makes a project-level PUT request with a JSON body.
func (ps *ProjectSession) Put(ctx context.Context, endpoint string, params url.Values, body any) (any, error) {
	return ps.Request(ctx, http.MethodPut, endpoint, params, body)
}

// Patch makes a project-level PATCH request with a JSON body.
func (ps *ProjectSession) Patch(ctx context.Context, endpoint string, params url.Values, body any) (any, error) {
	return ps.Request(ctx, http.MethodPatch, endpoint, params, body)
}

// Request dispatches an arbitrary project-level call. The endpoint is
// prefixed with the resolved project address and delegated to the user
// session.
func (ps *ProjectSession) Request(ctx context.Context, method, endpoint string, params url.Values, body any) (any, error) {
	return ps.user.Request(ctx, method, ps.projectAddress+endpoint, params, body)
}
