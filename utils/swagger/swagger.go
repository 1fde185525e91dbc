package swagger

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SwaggerConfig points the documentation page at the served spec and at the
// login endpoint used to obtain a bearer token.
type SwaggerConfig struct {
	Title         string
	SwaggerDocURL string
	AuthURL       string
}

const swaggerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css" />
    <style>
        body { margin: 0; background: #fafafa; }
        .supervisor-login { display: flex; gap: 8px; align-items: center; padding: 12px 20px; background: #1b1b1b; color: #fff; font-family: sans-serif; }
        .supervisor-login input { padding: 6px 8px; border-radius: 4px; border: 1px solid #555; }
        .supervisor-login button { padding: 6px 14px; border: none; border-radius: 4px; background: #49cc90; color: #fff; cursor: pointer; }
        .supervisor-login .status { margin-left: 12px; font-size: 13px; }
    </style>
</head>
<body>
    <div class="supervisor-login">
        <strong>Supervisor login</strong>
        <input type="email" id="login-email" placeholder="email" />
        <input type="password" id="login-password" placeholder="password" />
        <button id="login-button" onclick="performAuthentication()">Login</button>
        <span class="status" id="login-status"></span>
    </div>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-standalone-preset.js"></script>
    <script>
        window.AUTH_URL = "{{.AuthURL}}";
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: "{{.SwaggerDocURL}}",
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [SwaggerUIBundle.presets.apis, SwaggerUIStandalonePreset],
                layout: "StandaloneLayout",
                docExpansion: "list",
                validatorUrl: null,
                persistAuthorization: true
            });
        };

        window.performAuthentication = async function() {
            const email = document.getElementById('login-email').value.trim();
            const password = document.getElementById('login-password').value;
            const status = document.getElementById('login-status');
            const button = document.getElementById('login-button');
            if (!email || !password) {
                status.textContent = 'Enter both email and password';
                return;
            }
            button.disabled = true;
            try {
                const response = await fetch(window.AUTH_URL, {
                    method: 'POST',
                    headers: { 'Content-Type': 'application/json' },
                    body: JSON.stringify({ email: email, password: password })
                });
                const body = await response.json();
                if (!response.ok) {
                    throw new Error((body.error && body.error.details) || body.message || 'Authentication failed');
                }
                const token = body.data && body.data.token;
                if (!token) {
                    throw new Error('No token received');
                }
                window.ui.preauthorizeApiKey('BearerAuth', 'Bearer ' + token);
                status.textContent = 'Signed in as ' + email;
            } catch (error) {
                status.textContent = error.message;
            } finally {
                button.disabled = false;
            }
        };
    </script>
</body>
</html>`

// ServeSwaggerUI serves the Swagger UI with a supervisor login bar that fills
// in the BearerAuth token.
func ServeSwaggerUI(config SwaggerConfig) gin.HandlerFunc {
	if config.Title == "" {
		config.Title = "API Documentation"
	}
	if config.SwaggerDocURL == "" {
		config.SwaggerDocURL = "/swagger/doc.json"
	}
	if config.AuthURL == "" {
		config.AuthURL = "/api/v1/auth/login"
	}

	tmpl := template.Must(template.New("swagger").Parse(swaggerHTML))

	return func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(c.Writer, config); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render Swagger UI"})
		}
	}
}
