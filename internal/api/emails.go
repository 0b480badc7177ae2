package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
	"github.com/dmitrymomot/mailgate/pkg/mailer/postmark"
)

// EmailRequest is the body of POST /v1/emails.
//
// TemplateID and TemplateAlias select a Postmark template; Model is its data.
// Template selects a local markdown template rendered with Data instead.
type EmailRequest struct {
	Properties    map[string]any      `json:"properties,omitempty"`
	Model         map[string]any      `json:"model,omitempty"`
	Data          map[string]any      `json:"data,omitempty"`
	TemplateID    json.Number         `json:"template_id,omitempty"`
	To            string              `json:"to"`
	Subject       string              `json:"subject"`
	Body          string              `json:"body"`
	From          string              `json:"from,omitempty"`
	TemplateAlias string              `json:"template_alias,omitempty"`
	Tag           string              `json:"tag,omitempty"`
	Template      string              `json:"template,omitempty"`
	Layout        string              `json:"layout,omitempty"`
	CC            []string            `json:"cc,omitempty"`
	Attachments   []AttachmentRequest `json:"attachments,omitempty"`
	HTML          bool                `json:"html"`
	Queue         bool                `json:"queue"`
}

// AttachmentRequest carries base64 content in Content.
type AttachmentRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	ContentID   string `json:"content_id,omitempty"`
	Content     []byte `json:"content"`
}

// EmailResponse is returned on success.
type EmailResponse struct {
	Status string `json:"status"`
}

const (
	statusSent   = "sent"
	statusQueued = "queued"
)

func (s *Server) sendEmail(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	args := req.args()
	ctx := r.Context()

	if req.Template != "" {
		if req.Queue {
			s.writeError(w, r, &HTTPError{Err: errBadRequest, Message: "local templates cannot be queued"})
			return
		}
		err := s.mailer.SendTemplate(ctx, mailer.TemplateParams{
			To:       req.To,
			Template: req.Template,
			Layout:   req.Layout,
			Subject:  req.Subject,
			Data:     req.Data,
			Args:     args,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, EmailResponse{Status: statusSent})
		return
	}

	if req.Queue {
		if err := s.mailer.Queue(ctx, req.To, req.Subject, req.Body, req.HTML, args); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, EmailResponse{Status: statusQueued})
		return
	}

	if err := s.mailer.Send(ctx, req.To, req.Subject, req.Body, req.HTML, args); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, EmailResponse{Status: statusSent})
}

// args folds the Postmark shortcuts into the generic property bag.
// Explicit fields win over the same keys in Properties.
func (req *EmailRequest) args() *mailer.Args {
	props := make(mailer.Properties, len(req.Properties)+4)
	for k, v := range req.Properties {
		props[k] = v
	}
	if req.TemplateID != "" {
		props[postmark.PropertyTemplateID] = req.TemplateID
	}
	if alias := strings.TrimSpace(req.TemplateAlias); alias != "" {
		props[postmark.PropertyTemplateAlias] = alias
	}
	if req.Model != nil {
		props[postmark.PropertyTemplateModel] = req.Model
	}
	if req.Tag != "" {
		props[postmark.PropertyTag] = req.Tag
	}

	args := &mailer.Args{
		From: req.From,
		CC:   req.CC,
	}
	if len(props) > 0 {
		args.Properties = props
	}
	for _, a := range req.Attachments {
		att := mailer.NewAttachment(a.Filename, a.ContentType, a.Content)
		att.ContentID = a.ContentID
		args.Attachments = append(args.Attachments, att)
	}
	return args
}
