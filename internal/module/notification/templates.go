package notification

import (
	"html/template"
	texttemplate "text/template"
)

const (
	templateVideoUploaded  = "video_uploaded"
	templateVideoApproved  = "video_approved"
	templateVideoRejected  = "video_rejected"
	templateVideoPublished = "video_published"
	templateTeamInvitation = "team_invitation"
)

var subjects = map[string]string{
	templateVideoUploaded:  "New video awaiting review: {{.VideoTitle}}",
	templateVideoApproved:  "Video approved: {{.VideoTitle}}",
	templateVideoRejected:  "Video rejected: {{.VideoTitle}}",
	templateVideoPublished: "Video published: {{.VideoTitle}}",
	templateTeamInvitation: "{{.InviterName}} invited you to {{.TeamName}}",
}

var bodies = template.Must(template.New("emails").Parse(`
{{define "video_uploaded"}}
<p>A new video <strong>{{.VideoTitle}}</strong> was uploaded and is waiting for review.</p>
<p><a href="{{.VideoURL}}">Open the video</a></p>
{{end}}

{{define "video_approved"}}
<p>The video <strong>{{.VideoTitle}}</strong> has been approved.</p>
<p><a href="{{.VideoURL}}">Open the video</a></p>
{{end}}

{{define "video_rejected"}}
<p>The video <strong>{{.VideoTitle}}</strong> was rejected.</p>
<p>Reason: {{.Reason}}</p>
<p><a href="{{.VideoURL}}">Open the video</a></p>
{{end}}

{{define "video_published"}}
<p>The video <strong>{{.VideoTitle}}</strong> is now live on YouTube.</p>
<p><a href="{{.YouTubeURL}}">Watch it on YouTube</a></p>
{{end}}

{{define "team_invitation"}}
<p>{{.InviterName}} invited you to join the team <strong>{{.TeamName}}</strong> on VideoFlow.</p>
<p><a href="{{.AcceptURL}}">Accept the invitation</a></p>
{{end}}
`))

// Subjects render as plain text; html/template escaping has no business in
// a Subject header.
var subjectTemplates = func() map[string]*texttemplate.Template {
	out := make(map[string]*texttemplate.Template, len(subjects))
	for name, text := range subjects {
		out[name] = texttemplate.Must(texttemplate.New(name + "_subject").Parse(text))
	}
	return out
}()
