package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(t.TempDir(), []byte("test-secret"))
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %s", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func Test_Server_LoginAndCreateGrammar(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)
	_, err := srv.CreateCredential(context.Background(), "admin", "password")
	assert.NoError(err)

	loginResp := doJSON(t, srv, http.MethodPost, "/auth/login", loginRequest{Username: "admin", Password: "password"}, "")
	assert.Equal(http.StatusOK, loginResp.Code)

	var login loginResponse
	assert.NoError(json.Unmarshal(loginResp.Body.Bytes(), &login))
	assert.NotEmpty(login.Token)

	createResp := doJSON(t, srv, http.MethodPost, "/grammars", createGrammarRequest{
		Name:      "greeting",
		Source:    `greeting ::= "hello" / "hi"`,
		EntryRule: "greeting",
	}, login.Token)
	assert.Equal(http.StatusCreated, createResp.Code)

	getResp := doJSON(t, srv, http.MethodGet, "/grammars/greeting", nil, "")
	assert.Equal(http.StatusOK, getResp.Code)

	var g grammarResponse
	assert.NoError(json.Unmarshal(getResp.Body.Bytes(), &g))
	assert.Equal("greeting", g.Name)
	assert.Len(g.Rules, 1)
}

func Test_Server_CreateGrammar_RequiresAuth(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)
	resp := doJSON(t, srv, http.MethodPost, "/grammars", createGrammarRequest{
		Name: "x", Source: `x ::= "y"`, EntryRule: "x",
	}, "")
	assert.Equal(http.StatusUnauthorized, resp.Code)
}

func Test_Server_CreateGrammar_RejectsInvalidGrammar(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)
	_, err := srv.CreateCredential(context.Background(), "admin", "password")
	assert.NoError(err)

	loginResp := doJSON(t, srv, http.MethodPost, "/auth/login", loginRequest{Username: "admin", Password: "password"}, "")
	var login loginResponse
	assert.NoError(json.Unmarshal(loginResp.Body.Bytes(), &login))

	resp := doJSON(t, srv, http.MethodPost, "/grammars", createGrammarRequest{
		Name:      "broken",
		Source:    `broken ::= missingRule`,
		EntryRule: "broken",
	}, login.Token)
	assert.Equal(http.StatusBadRequest, resp.Code)
}

func Test_Server_Parse_RecompilesAndMatches(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)
	_, err := srv.CreateCredential(context.Background(), "admin", "password")
	assert.NoError(err)

	loginResp := doJSON(t, srv, http.MethodPost, "/auth/login", loginRequest{Username: "admin", Password: "password"}, "")
	var login loginResponse
	assert.NoError(json.Unmarshal(loginResp.Body.Bytes(), &login))

	doJSON(t, srv, http.MethodPost, "/grammars", createGrammarRequest{
		Name:      "digits",
		Source:    "digits ::= [0-9]+\n",
		EntryRule: "digits",
	}, login.Token)

	req := httptest.NewRequest(http.MethodPost, "/grammars/digits/parse", bytes.NewBufferString("12345"))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.Equal(http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/grammars/digits/parse", bytes.NewBufferString("abcde"))
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.Equal(http.StatusBadRequest, w.Code)
}

func Test_Server_Login_RejectsBadPassword(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)
	_, err := srv.CreateCredential(context.Background(), "admin", "password")
	assert.NoError(err)

	resp := doJSON(t, srv, http.MethodPost, "/auth/login", loginRequest{Username: "admin", Password: "wrong"}, "")
	assert.Equal(http.StatusUnauthorized, resp.Code)
}
