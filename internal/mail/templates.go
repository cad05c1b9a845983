package mail

import "fmt"

func confirmationBody(email, code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Confirm your account</h2>
    <p>Hi %s,</p>
    <p>Use this code to confirm your account:</p>
    <div style="font-size: 24px; font-weight: bold; letter-spacing: 2px;">%s</div>
    <p>If you did not create an account, you can ignore this email.</p>
  </div>
</body>
</html>`, email, code)
}

func resetBody(email, code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Reset your password</h2>
    <p>Hi %s,</p>
    <p>Use this code to reset your password:</p>
    <div style="font-size: 24px; font-weight: bold; letter-spacing: 2px;">%s</div>
    <p>The code expires with your session window. If you did not request
    a reset, you can ignore this email.</p>
  </div>
</body>
</html>`, email, code)
}
