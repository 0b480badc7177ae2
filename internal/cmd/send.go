package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailgate/internal/app"
	"github.com/dmitrymomot/mailgate/pkg/mailer"
	"github.com/dmitrymomot/mailgate/pkg/mailer/postmark"
)

type sendFlags struct {
	model         map[string]string
	to            string
	subject       string
	body          string
	bodyFile      string
	from          string
	templateAlias string
	tag           string
	tenant        string
	cc            []string
	attach        []string
	templateID    int64
	html          bool
	queue         bool
}

func newSendCmd(s *state) *cobra.Command {
	f := &sendFlags{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a single email",
		Long: `Send one email through the configured delivery chain.

A template id or alias sends through a Postmark template with --model as
its data. Without them the subject and body are sent as is.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := f.mailerArgs()
			if err != nil {
				return err
			}
			body, err := f.content()
			if err != nil {
				return err
			}

			ctx := mailer.WithTenant(cmd.Context(), f.tenant)
			return s.build(ctx, func(a *app.App) error {
				if f.queue {
					if a.Queue == nil {
						return errors.New("queue is not configured")
					}
					if err := a.Mailer.Queue(ctx, f.to, f.subject, body, f.html, args); err != nil {
						return err
					}
					s.log.InfoContext(ctx, "email queued")
					return nil
				}
				if err := a.Mailer.Send(ctx, f.to, f.subject, body, f.html, args); err != nil {
					return err
				}
				s.log.InfoContext(ctx, "email sent")
				return nil
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.to, "to", "", "recipients, comma separated")
	fl.StringVar(&f.subject, "subject", "", "subject line")
	fl.StringVar(&f.body, "body", "", "message body")
	fl.StringVar(&f.bodyFile, "body-file", "", "read the message body from a file")
	fl.BoolVar(&f.html, "html", false, "treat the body as HTML")
	fl.StringVar(&f.from, "from", "", "sender address, defaults to the configured address")
	fl.StringSliceVar(&f.cc, "cc", nil, "carbon copy recipients")
	fl.StringSliceVar(&f.attach, "attach", nil, "files to attach")
	fl.Int64Var(&f.templateID, "template-id", 0, "Postmark template id")
	fl.StringVar(&f.templateAlias, "template-alias", "", "Postmark template alias")
	fl.StringToStringVar(&f.model, "model", nil, "template model values as key=value")
	fl.StringVar(&f.tag, "tag", "", "Postmark message tag")
	fl.StringVar(&f.tenant, "tenant", "", "tenant whose settings are used")
	fl.BoolVar(&f.queue, "queue", false, "queue the email instead of sending it now")
	_ = cmd.MarkFlagRequired("to")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")

	return cmd
}

func (f *sendFlags) content() (string, error) {
	if f.bodyFile == "" {
		return f.body, nil
	}
	data, err := os.ReadFile(f.bodyFile)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *sendFlags) mailerArgs() (*mailer.Args, error) {
	args := &mailer.Args{From: f.from, CC: f.cc}

	props := mailer.Properties{}
	if f.templateID != 0 {
		props[postmark.PropertyTemplateID] = f.templateID
	}
	if f.templateAlias != "" {
		props[postmark.PropertyTemplateAlias] = f.templateAlias
	}
	if len(f.model) > 0 {
		model := make(map[string]any, len(f.model))
		for k, v := range f.model {
			model[k] = v
		}
		props[postmark.PropertyTemplateModel] = model
	}
	if f.tag != "" {
		props[postmark.PropertyTag] = f.tag
	}
	if len(props) > 0 {
		args.Properties = props
	}

	for _, path := range f.attach {
		a, err := openAttachment(path)
		if err != nil {
			return nil, err
		}
		args.Attachments = append(args.Attachments, a)
	}
	return args, nil
}
