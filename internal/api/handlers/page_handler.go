package handlers

import (
	"html/template"
	"net/http"

	"github.com/classdesk/classdesk-be/internal/auth"
)

// Minimal server-rendered pages. The real frontend lives elsewhere; these
// exist so the form flows work end to end without it.
var pageTmpl = template.Must(template.New("pages").Parse(`
{{define "landing"}}<!DOCTYPE html>
<html><head><title>Classdesk</title></head><body>
{{if .User}}<h1>Welcome back, {{.User.FullName}}</h1>
<p>Signed in as {{.User.Email}} ({{.User.Role}})</p>
<p><a href="/ask-ai">Ask the AI tutor</a> | <a href="/logout">Log out</a></p>
{{else}}<h1>Welcome to Classdesk</h1>
<p><a href="/login">Log in</a> or <a href="/register">register</a></p>
{{end}}
</body></html>{{end}}

{{define "register"}}<!DOCTYPE html>
<html><head><title>Register - Classdesk</title></head><body>
<h1>Register</h1>
{{if .Message}}<p><em>{{.Message}}</em></p>{{end}}
<form method="POST" action="/register">
<input name="username" placeholder="Username" required><br>
<input name="full_name" placeholder="Full name" required><br>
<input name="email" type="email" placeholder="Email" required><br>
<input name="phone" placeholder="Phone"><br>
<input name="age" type="number" placeholder="Age"><br>
<input name="password" type="password" placeholder="Password" required><br>
<select name="role"><option value="student">Student</option><option value="teacher">Teacher</option></select><br>
<button type="submit">Register</button>
</form>
<p><a href="/login">Already have an account?</a></p>
</body></html>{{end}}

{{define "login"}}<!DOCTYPE html>
<html><head><title>Login - Classdesk</title></head><body>
<h1>Login</h1>
{{if .Message}}<p><em>{{.Message}}</em></p>{{end}}
<form method="POST" action="/login">
<input name="email" type="email" placeholder="Email" required><br>
<input name="password" type="password" placeholder="Password" required><br>
<button type="submit">Log in</button>
</form>
<p><a href="/register">Need an account?</a></p>
</body></html>{{end}}

{{define "ask-ai"}}<!DOCTYPE html>
<html><head><title>AI Tutor - Classdesk</title></head><body>
<h1>Ask the AI tutor</h1>
<textarea id="question" rows="4" cols="60" placeholder="Ask a programming question..."></textarea><br>
<button onclick="ask()">Ask</button>
<pre id="answer"></pre>
<script>
async function ask() {
  const q = document.getElementById('question').value;
  const res = await fetch('/api/v1/ask-ai', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({question: q})
  });
  const data = await res.json();
  document.getElementById('answer').textContent = data.answer || data.error;
}
</script>
<p><a href="/">Home</a></p>
</body></html>{{end}}
`))

// PageHandler serves the HTML pages.
type PageHandler struct{}

// NewPageHandler creates a new PageHandler.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Landing renders the home page for the current session user or anonymous.
func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	data := map[string]interface{}{}
	if ok {
		data["User"] = user
	}
	h.render(w, "landing", data)
}

// RegisterPage renders the registration form, with an optional message from
// a failed attempt.
func (h *PageHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register", map[string]interface{}{"Message": r.URL.Query().Get("message")})
}

// LoginPage renders the login form.
func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login", map[string]interface{}{"Message": r.URL.Query().Get("message")})
}

// AskAIPage renders the AI tutor page. The route is session-protected.
func (h *PageHandler) AskAIPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "ask-ai", nil)
}

// NotFound is the catch-all for unknown routes.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Not Found", http.StatusNotFound)
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	pageTmpl.ExecuteTemplate(w, name, data)
}
