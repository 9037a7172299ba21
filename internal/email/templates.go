package email

import (
	"bytes"
	"fmt"
	"html/template"
)

var templates = template.Must(template.New("email").Parse(`
{{define "new_appointment"}}
<h2>New appointment request</h2>
<p>Hello {{.DoctorUsername}},</p>
<p>{{.PatientFirstName}} {{.PatientLastName}} requested an appointment on
<strong>{{.AppointmentDate}}</strong> at <strong>{{.AppointmentTime}}</strong>.</p>
<p>Please accept, reject or propose a new time from your dashboard.</p>
{{end}}

{{define "accept_appointment"}}
<h2>Appointment confirmed</h2>
<p>Hello {{.ReceiverName}},</p>
<p>{{.ActorLabel}} has confirmed the appointment on
<strong>{{.AppointmentDate}}</strong> at <strong>{{.AppointmentTime}}</strong>.</p>
{{end}}

{{define "reject_appointment"}}
<h2>Appointment rejected</h2>
<p>Hello {{.ReceiverName}},</p>
<p>{{.ActorLabel}} has rejected the appointment.</p>
{{end}}

{{define "reschedule_appointment"}}
<h2>Appointment rescheduled</h2>
<p>Hello {{.ReceiverName}},</p>
<p>{{.RescheduledBy}} proposed a new time:
<strong>{{.AppointmentDate}}</strong> at <strong>{{.AppointmentTime}}</strong>.</p>
<p>Open the app to accept or propose another slot.</p>
{{end}}

{{define "welcome"}}
<h2>Welcome to CareMeet</h2>
<p>Hello {{.Username}}, your account has been created.</p>
{{end}}

{{define "password_reset"}}
<h2>Password reset</h2>
<p>Hello {{.Username}},</p>
<p>Use this code to reset your password: <strong>{{.Token}}</strong></p>
<p>The code expires in 15 minutes. If you did not request a reset,
ignore this email.</p>
{{end}}

{{define "password_reset_success"}}
<h2>Password changed</h2>
<p>Hello {{.Username}}, your password was changed and all sessions were
signed out.</p>
{{end}}
`))

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
