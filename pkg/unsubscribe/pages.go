package unsubscribe

import (
	"fmt"
	"html"
)

const invalidTokenPage = `<!DOCTYPE html>
<html>
  <head>
    <title>Invalid Unsubscribe Link</title>
    <style>
      body { font-family: Arial, sans-serif; max-width: 600px; margin: 50px auto; padding: 20px; }
      .container { text-align: center; }
      .error { color: #d32f2f; }
    </style>
  </head>
  <body>
    <div class="container">
      <h1 class="error">Invalid or Expired Unsubscribe Link</h1>
      <p>This unsubscribe link is either invalid or has expired.</p>
      <p>If you continue to receive unwanted emails, please contact support.</p>
    </div>
  </body>
</html>`

const storeErrorPage = `<!DOCTYPE html>
<html>
  <head>
    <title>Unsubscribe Error</title>
    <style>
      body { font-family: Arial, sans-serif; max-width: 600px; margin: 50px auto; padding: 20px; }
      .container { text-align: center; }
      .error { color: #d32f2f; }
    </style>
  </head>
  <body>
    <div class="container">
      <h1 class="error">Unsubscribe Error</h1>
      <p>We encountered an error while processing your unsubscribe request.</p>
      <p>Please contact support if this problem persists.</p>
    </div>
  </body>
</html>`

func confirmationPage(email string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head>
    <title>Unsubscribed Successfully</title>
    <style>
      body { font-family: Arial, sans-serif; max-width: 600px; margin: 50px auto; padding: 20px; }
      .container { text-align: center; }
      .success { color: #2e7d32; }
      .email { background-color: #f5f5f5; padding: 10px; border-radius: 4px; display: inline-block; }
    </style>
  </head>
  <body>
    <div class="container">
      <h1 class="success">Unsubscribed Successfully</h1>
      <p>The email address <span class="email">%s</span> has been unsubscribed from our mailing list.</p>
      <p>You will no longer receive marketing emails from us.</p>
      <p><small>Note: You may still receive transactional emails related to your account or orders.</small></p>
    </div>
  </body>
</html>`, html.EscapeString(email))
}
