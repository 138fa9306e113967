package api_test

import (
	"bytes"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersAPI(t *testing.T) {
	t.Parallel()

	t.Run("create user", func(t *testing.T) {
		t.Parallel()
		h := setupAPI(t)

		insertQuery := `INSERT INTO users \(id, name, email\) VALUES \(\$1, \$2, \$3\)`
		h.db.ExpectExec(insertQuery).
			WithArgs(sqlmock.AnyArg(), "Salão Bela", "contato@bela.com.br").
			WillReturnResult(sqlmock.NewResult(1, 1))

		body := `{"name":"Salão Bela","email":"contato@bela.com.br"}`
		req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.api.Router().ServeHTTP(rec, req)

		require.NoError(t, h.db.ExpectationsWereMet())
		assert.Equal(t, http.StatusCreated, rec.Code)

		res, created := decode(t, rec)
		assert.Equal(t, http.StatusCreated, res.Status)
		assert.Equal(t, "Salão Bela", created["name"])
		assert.NotEmpty(t, created["id"])
	})

	t.Run("create user invalid body", func(t *testing.T) {
		t.Parallel()
		h := setupAPI(t)

		req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString("invalid json"))
		rec := httptest.NewRecorder()

		h.api.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create user validation error", func(t *testing.T) {
		t.Parallel()
		h := setupAPI(t)

		req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString(`{"name":"","email":"x@example.com"}`))
		rec := httptest.NewRecorder()

		h.api.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("me", func(t *testing.T) {
		t.Parallel()
		h := setupAPI(t)

		h.db.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email FROM users WHERE id = $1`)).
			WithArgs(h.userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
				AddRow(h.userID.String(), "Salão Bela", "contato@bela.com.br"))

		rec := h.do(t, http.MethodGet, "/api/me", "")

		require.NoError(t, h.db.ExpectationsWereMet())
		assert.Equal(t, http.StatusOK, rec.Code)
		_, u := decode(t, rec)
		assert.Equal(t, h.userID.String(), u["id"])
	})

	t.Run("me not found", func(t *testing.T) {
		t.Parallel()
		h := setupAPI(t)

		h.db.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email FROM users WHERE id = $1`)).
			WithArgs(h.userID).
			WillReturnError(sql.ErrNoRows)

		rec := h.do(t, http.MethodGet, "/api/me", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
