package email

import "html/template"

const layout = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #1F6F5C; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
        .content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
        .button { display: inline-block; background-color: #1F6F5C; color: white !important; padding: 12px 30px; text-decoration: none; border-radius: 5px; margin: 20px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; text-align: center; }
    </style>
</head>
<body>
    <div class="header"><h1>Athena</h1></div>
    <div class="content">{{template "content" .}}
        <p>Or copy and paste this link into your browser:</p>
        <p style="word-break: break-all; color: #1F6F5C;">{{.Link}}</p>
    </div>
    <div class="footer">{{template "footer" .}}</div>
</body>
</html>
`

var confirmationTemplate = template.Must(template.Must(template.New("confirmation").Parse(layout)).Parse(`
{{define "content"}}
        <h2>Confirm your email address</h2>
        <p>Thanks for signing up! Click the button below to activate your account and start sharing card sets.</p>
        <a href="{{.Link}}" class="button">Confirm Email</a>
{{end}}
{{define "footer"}}<p>If you didn't create an account, you can safely ignore this email.</p>{{end}}
`))

var resetTemplate = template.Must(template.Must(template.New("reset").Parse(layout)).Parse(`
{{define "content"}}
        <h2>Reset your password</h2>
        <p>You asked to reset your password. Click the button below to choose a new one.</p>
        <a href="{{.Link}}" class="button">Reset Password</a>
{{end}}
{{define "footer"}}<p>This link expires in 1 hour. If you didn't ask for a reset, your password stays unchanged.</p>{{end}}
`))
