package signup

import (
	"net/http"

	"github.com/google/uuid"
)

const sessionCookie = "atlas_session"

// sessionID lê o cookie de sessão. Valores que não são uuid são ignorados.
func sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// ensureSession devolve o id da sessão, criando um novo cookie quando necessário.
// O cookie não tem Max-Age: vale enquanto o navegador estiver aberto.
func ensureSession(w http.ResponseWriter, r *http.Request, secure bool) string {
	if id, ok := sessionID(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
