package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AntonStoeckl/library-lending-go/eventstore/memengine"
	"github.com/AntonStoeckl/library-lending-go/library/httpapi"
	"github.com/AntonStoeckl/library-lending-go/library/identity"
	"github.com/AntonStoeckl/library-lending-go/library/lending"
	"github.com/AntonStoeckl/library-lending-go/library/shell"
)

const testPassword = "correct horse battery"

var (
	_ httpapi.Lending       = (*lending.Service)(nil)
	_ httpapi.Authenticator = (*identity.Provider)(nil)
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type api struct {
	t       *testing.T
	handler http.Handler
}

func (a api) call(method, path, token string, body any) (int, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())

	return rec.Code, env
}

func (a api) login(username string) (token string, userID string) {
	a.t.Helper()

	status, env := a.call(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": testPassword,
	})
	require.Equal(a.t, http.StatusOK, status, env.Message)

	var data struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))

	return data.Token, data.User.ID
}

func (a api) register(username string, role string) {
	a.t.Helper()

	status, env := a.call(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"password": testPassword,
		"name":     username,
		"role":     role,
	})
	require.Equal(a.t, http.StatusCreated, status, env.Message)
}

func (a api) addBook(adminToken string, isbn string, copies int) string {
	a.t.Helper()

	status, env := a.call(http.MethodPost, "/api/books", adminToken, map[string]any{
		"title":           "The Go Programming Language",
		"author":          "Alan Donovan",
		"isbn":            isbn,
		"publisher":       "Addison-Wesley",
		"publicationYear": 2015,
		"category":        "Programming",
		"totalCopies":     copies,
	})
	require.Equal(a.t, http.StatusCreated, status, env.Message)

	return idOf(a.t, env)
}

func Test_Routes_RequireAuthentication(t *testing.T) {
	// arrange
	a := givenAPI(t)

	// act
	status, env := a.call(http.MethodGet, "/api/books", "", nil)
	statusBadToken, envBadToken := a.call(http.MethodGet, "/api/books", "not-a-jwt", nil)

	// assert
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)
	assert.Equal(t, http.StatusUnauthorized, statusBadToken)
	assert.Equal(t, identity.ErrInvalidToken.Error(), envBadToken.Message)
}

func Test_Login_WithWrongPassword_Fails(t *testing.T) {
	// arrange
	a := givenAPI(t)

	// act
	status, env := a.call(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin",
		"password": "wrong password",
	})

	// assert
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, identity.ErrInvalidCredentials.Error(), env.Message)
}

func Test_Register_AsAdmin_IsForbidden(t *testing.T) {
	// arrange
	a := givenAPI(t)

	// act
	status, env := a.call(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "mallory",
		"password": testPassword,
		"name":     "Mallory",
		"role":     "admin",
	})

	// assert
	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, env.Success)
}

func Test_LoanLifecycle_OverHTTP(t *testing.T) {
	// arrange
	a := givenAPI(t)
	adminToken, _ := a.login("admin")
	a.register("alice", "student")
	aliceToken, aliceID := a.login("alice")
	bookID := a.addBook(adminToken, "978-0-13-419044-0", 1)

	// act
	statusLent, envLent := a.call(http.MethodPost, "/api/loans", aliceToken, map[string]any{"bookId": bookID})
	statusAgain, envAgain := a.call(http.MethodPost, "/api/loans", aliceToken, map[string]any{"bookId": bookID})
	loanID := idOf(t, envLent)
	statusReturned, envReturned := a.call(http.MethodPut, "/api/loans/"+loanID+"/return", aliceToken, nil)
	statusTwice, _ := a.call(http.MethodPut, "/api/loans/"+loanID+"/return", aliceToken, nil)

	// assert
	require.Equal(t, http.StatusCreated, statusLent, envLent.Message)
	assert.Equal(t, http.StatusConflict, statusAgain, envAgain.Message)
	assert.Equal(t, http.StatusOK, statusReturned, envReturned.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, statusTwice)

	var returned struct {
		UserID     string     `json:"userId"`
		Status     string     `json:"status"`
		ReturnDate *time.Time `json:"returnDate"`
	}
	require.NoError(t, json.Unmarshal(envReturned.Data, &returned))
	assert.Equal(t, aliceID, returned.UserID)
	assert.Equal(t, "returned", returned.Status)
	assert.NotNil(t, returned.ReturnDate)

	_, envBook := a.call(http.MethodGet, "/api/books/"+bookID, aliceToken, nil)
	var book struct {
		AvailableCopies int `json:"availableCopies"`
	}
	require.NoError(t, json.Unmarshal(envBook.Data, &book))
	assert.Equal(t, 1, book.AvailableCopies)

	status, envLoans := a.call(http.MethodGet, "/api/loans/user/"+aliceID, aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	var loans []struct {
		Book struct {
			Title string `json:"title"`
		} `json:"book"`
	}
	require.NoError(t, json.Unmarshal(envLoans.Data, &loans))
	require.Len(t, loans, 1)
	assert.Equal(t, "The Go Programming Language", loans[0].Book.Title)
}

func Test_Authorization_IsDecidedServerSide(t *testing.T) {
	// arrange
	a := givenAPI(t)
	adminToken, adminID := a.login("admin")
	a.register("alice", "student")
	a.register("bob", "teacher")
	aliceToken, aliceID := a.login("alice")
	bobToken, _ := a.login("bob")
	bookID := a.addBook(adminToken, "978-0-13-419044-0", 2)
	_, envLent := a.call(http.MethodPost, "/api/loans", aliceToken, map[string]any{"bookId": bookID})
	loanID := idOf(t, envLent)

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		body     any
		expected int
	}{
		{name: "student adds a book", method: http.MethodPost, path: "/api/books", token: aliceToken, body: map[string]any{"title": "x"}, expected: http.StatusForbidden},
		{name: "student lists all loans", method: http.MethodGet, path: "/api/loans", token: aliceToken, expected: http.StatusForbidden},
		{name: "teacher lists loans of another user", method: http.MethodGet, path: "/api/loans/user/" + aliceID, token: bobToken, expected: http.StatusForbidden},
		{name: "teacher returns a loan of another user", method: http.MethodPut, path: "/api/loans/" + loanID + "/return", token: bobToken, expected: http.StatusForbidden},
		{name: "teacher borrows for another user", method: http.MethodPost, path: "/api/loans", token: bobToken, body: map[string]any{"bookId": bookID, "userId": aliceID}, expected: http.StatusForbidden},
		{name: "admin borrows", method: http.MethodPost, path: "/api/loans", token: adminToken, body: map[string]any{"bookId": bookID}, expected: http.StatusForbidden},
		{name: "admin removes herself", method: http.MethodDelete, path: "/api/users/" + adminID, token: adminToken, expected: http.StatusConflict},
		{name: "admin removes a user holding a book", method: http.MethodDelete, path: "/api/users/" + aliceID, token: adminToken, expected: http.StatusConflict},
		{name: "admin lists loans of a user", method: http.MethodGet, path: "/api/loans/user/" + aliceID, token: adminToken, expected: http.StatusOK},
		{name: "admin lists users", method: http.MethodGet, path: "/api/users", token: adminToken, expected: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			status, env := a.call(tc.method, tc.path, tc.token, tc.body)

			// assert
			assert.Equal(t, tc.expected, status, env.Message)
		})
	}
}

func Test_BookManagement_MapsDomainErrors(t *testing.T) {
	// arrange
	a := givenAPI(t)
	adminToken, _ := a.login("admin")
	bookID := a.addBook(adminToken, "978-0-13-419044-0", 2)

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		expected int
	}{
		{name: "missing title", method: http.MethodPost, path: "/api/books", body: map[string]any{"author": "x", "isbn": "1", "publicationYear": 2000, "totalCopies": 1}, expected: http.StatusBadRequest},
		{name: "malformed body", method: http.MethodPost, path: "/api/books", body: "not an object", expected: http.StatusBadRequest},
		{name: "duplicate isbn", method: http.MethodPost, path: "/api/books", body: map[string]any{"title": "x", "author": "y", "isbn": "9780134190440", "publicationYear": 2000, "totalCopies": 1}, expected: http.StatusConflict},
		{name: "unknown book", method: http.MethodGet, path: "/api/books/nope", expected: http.StatusNotFound},
		{name: "partial update", method: http.MethodPut, path: "/api/books/" + bookID, body: map[string]any{"totalCopies": 5}, expected: http.StatusOK},
		{name: "remove", method: http.MethodDelete, path: "/api/books/" + bookID, expected: http.StatusOK},
		{name: "remove again", method: http.MethodDelete, path: "/api/books/" + bookID, expected: http.StatusNotFound},
	}

	for _, tc := range tests {
		// act
		status, env := a.call(tc.method, tc.path, adminToken, tc.body)

		// assert
		assert.Equal(t, tc.expected, status, "%s: %s", tc.name, env.Message)
		assert.Equal(t, status < http.StatusBadRequest, env.Success, tc.name)
	}
}

func Test_CorrelationID_IsEchoed(t *testing.T) {
	// arrange
	a := givenAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Correlation-ID", "0198b1f4-5e6a-7c3d-9f21-4a1b2c3d4e5f")
	rec := httptest.NewRecorder()

	// act
	a.handler.ServeHTTP(rec, req)

	// assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0198b1f4-5e6a-7c3d-9f21-4a1b2c3d4e5f", rec.Header().Get("X-Correlation-ID"))
}

func givenAPI(t *testing.T) api {
	t.Helper()

	gin.SetMode(gin.TestMode)

	service, err := lending.NewService(
		memengine.NewEventStore(),
		lending.WithRetryOptions(shell.WithBaseDelay(time.Millisecond)),
	)
	require.NoError(t, err)

	provider, err := identity.NewProvider(service, "test-secret", identity.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)

	_, _, err = provider.EnsureAdmin(context.Background(), "admin", testPassword, "Admin")
	require.NoError(t, err)

	return api{t: t, handler: httpapi.NewServer(service, provider).Handler()}
}

func idOf(t *testing.T, env envelope) string {
	t.Helper()

	var data struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	return data.ID
}
