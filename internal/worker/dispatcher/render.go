package dispatcher

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"
	texttemplate "text/template"

	"entitlement-service/internal/domain/locale"
	"entitlement-service/internal/infra/notify"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/shared"
)

var ErrUnknownTemplate = errs.New("unknown notification template")

type emailTemplate struct {
	subject *texttemplate.Template
	html    *template.Template
	text    *texttemplate.Template
}

type emailView struct {
	Name                 string
	OfferName            string
	Hours                string
	AIDailyMinutes       int32
	TopupMinutes         int32
	AccessMonths         int32
	IncludesDiagnostic   bool
	IncludesLearningPlan bool
	Simulations          int32
	Price                string
	DashboardURL         string
	Brand                string
}

// Renderer turns an outbox email payload into a ready-to-send message.
type Renderer struct {
	dashboardURL string
	brand        string
}

func NewRenderer(dashboardURL, brand string) *Renderer {
	return &Renderer{dashboardURL: strings.TrimRight(dashboardURL, "/"), brand: brand}
}

func (r *Renderer) Render(p shared.EmailPayload) (notify.Email, error) {
	byLocale, ok := emailTemplates[p.Template]
	if !ok {
		return notify.Email{}, errs.Wrapf(ErrUnknownTemplate, "template %q", p.Template)
	}
	loc := locale.Parse(p.Locale, locale.EN)
	tpl := byLocale[loc]

	view := emailView{
		Name:                 p.Recipient.Name,
		OfferName:            p.Params.OfferName,
		Hours:                formatHours(p.Params.CoachingMinutes),
		AIDailyMinutes:       p.Params.AIDailyMinutes,
		TopupMinutes:         p.Params.TopupMinutes,
		AccessMonths:         p.Params.AccessMonths,
		IncludesDiagnostic:   p.Params.IncludesDiagnostic,
		IncludesLearningPlan: p.Params.IncludesLearningPlan,
		Simulations:          p.Params.SimulationsIncluded,
		Price:                p.Params.FormattedPrice,
		DashboardURL:         r.dashboardURL + dashboardPath[loc],
		Brand:                r.brand,
	}
	if view.Name == "" {
		view.Name = defaultName[loc]
	}

	var subject, html, text bytes.Buffer
	if err := tpl.subject.Execute(&subject, view); err != nil {
		return notify.Email{}, errs.Wrap(err, "render subject")
	}
	if err := tpl.html.Execute(&html, view); err != nil {
		return notify.Email{}, errs.Wrap(err, "render html body")
	}
	if err := tpl.text.Execute(&text, view); err != nil {
		return notify.Email{}, errs.Wrap(err, "render text body")
	}

	return notify.Email{
		To:       p.Recipient.Email,
		Subject:  strings.TrimSpace(subject.String()),
		HTMLBody: html.String(),
		TextBody: text.String(),
	}, nil
}

// formatHours prints 300 as "5" and 90 as "1.5".
func formatHours(minutes int32) string {
	return strconv.FormatFloat(float64(minutes)/60, 'f', -1, 64)
}

var dashboardPath = map[locale.Locale]string{
	locale.EN: "/en/dashboard",
	locale.FR: "/fr/tableau-de-bord",
}

var defaultName = map[locale.Locale]string{
	locale.EN: "Valued Customer",
	locale.FR: "Client(e)",
}

var emailTemplates = map[string]map[locale.Locale]emailTemplate{
	shared.TemplateMainOfferConfirmation: {
		locale.EN: mustEmailTemplate("main-en", subjectEN, mainHTMLEN, mainTextEN),
		locale.FR: mustEmailTemplate("main-fr", subjectFR, mainHTMLFR, mainTextFR),
	},
	shared.TemplateTopupConfirmation: {
		locale.EN: mustEmailTemplate("topup-en", subjectEN, topupHTMLEN, topupTextEN),
		locale.FR: mustEmailTemplate("topup-fr", subjectFR, topupHTMLFR, topupTextFR),
	},
}

func mustEmailTemplate(name, subject, html, text string) emailTemplate {
	return emailTemplate{
		subject: texttemplate.Must(texttemplate.New(name + "-subject").Parse(subject)),
		html:    template.Must(template.New(name + "-html").Parse(html)),
		text:    texttemplate.Must(texttemplate.New(name + "-text").Parse(text)),
	}
}

const (
	subjectEN = `Your {{.OfferName}} Purchase Confirmation`
	subjectFR = `Confirmation de votre achat {{.OfferName}}`
)

const mainHTMLEN = `<h1>Thank you for your purchase!</h1>
<p>Dear {{.Name}},</p>
<p>Your purchase of <strong>{{.OfferName}}</strong> has been confirmed.</p>
<h2>What's Included:</h2>
<ul>
  <li><strong>{{.Hours}} hours</strong> of expert coaching</li>
  {{- if .IncludesDiagnostic}}
  <li>Strategic Language Diagnostic</li>
  {{- end}}
  {{- if .IncludesLearningPlan}}
  <li>Personalized Learning Plan</li>
  {{- end}}
  {{- if gt .Simulations 0}}
  <li>{{.Simulations}} exam simulations</li>
  {{- end}}
  {{- if gt .AIDailyMinutes 0}}
  <li>AI Coach access: {{.AIDailyMinutes}} minutes per day for {{.AccessMonths}} months</li>
  {{- end}}
</ul>
<h2>Next Steps:</h2>
<ol>
  {{- if .IncludesDiagnostic}}
  <li>Complete your Strategic Language Diagnostic</li>
  {{- end}}
  {{- if .IncludesLearningPlan}}
  <li>Review your personalized Learning Plan</li>
  {{- end}}
  <li>Book your first coaching session</li>
</ol>
<p><a href="{{.DashboardURL}}" style="background: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Go to Dashboard</a></p>
<p>Amount paid: <strong>{{.Price}}</strong></p>
<p>Best regards,<br>The {{.Brand}} Team</p>
`

const mainHTMLFR = `<h1>Merci pour votre achat!</h1>
<p>Cher(e) {{.Name}},</p>
<p>Votre achat de <strong>{{.OfferName}}</strong> a été confirmé.</p>
<h2>Ce qui est inclus:</h2>
<ul>
  <li><strong>{{.Hours}} heures</strong> de coaching expert</li>
  {{- if .IncludesDiagnostic}}
  <li>Diagnostic stratégique de langue</li>
  {{- end}}
  {{- if .IncludesLearningPlan}}
  <li>Plan d'apprentissage personnalisé</li>
  {{- end}}
  {{- if gt .Simulations 0}}
  <li>{{.Simulations}} simulations d'examen</li>
  {{- end}}
  {{- if gt .AIDailyMinutes 0}}
  <li>Accès au coach IA : {{.AIDailyMinutes}} minutes par jour pendant {{.AccessMonths}} mois</li>
  {{- end}}
</ul>
<h2>Prochaines étapes:</h2>
<ol>
  {{- if .IncludesDiagnostic}}
  <li>Complétez votre diagnostic stratégique de langue</li>
  {{- end}}
  {{- if .IncludesLearningPlan}}
  <li>Consultez votre plan d'apprentissage personnalisé</li>
  {{- end}}
  <li>Réservez votre première session de coaching</li>
</ol>
<p><a href="{{.DashboardURL}}" style="background: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Aller au tableau de bord</a></p>
<p>Montant payé: <strong>{{.Price}}</strong></p>
<p>Cordialement,<br>L'équipe {{.Brand}}</p>
`

const mainTextEN = `Thank you for your purchase!

Dear {{.Name}},

Your purchase of {{.OfferName}} has been confirmed. It includes {{.Hours}} hours of expert coaching.

Dashboard: {{.DashboardURL}}
Amount paid: {{.Price}}

Best regards,
The {{.Brand}} Team
`

const mainTextFR = `Merci pour votre achat!

Cher(e) {{.Name}},

Votre achat de {{.OfferName}} a été confirmé. Il comprend {{.Hours}} heures de coaching expert.

Tableau de bord : {{.DashboardURL}}
Montant payé : {{.Price}}

Cordialement,
L'équipe {{.Brand}}
`

const topupHTMLEN = `<h1>Thank you for your purchase!</h1>
<p>Dear {{.Name}},</p>
<p>Your purchase of <strong>{{.OfferName}}</strong> has been confirmed.</p>
<p><strong>{{.TopupMinutes}} AI Coach minutes</strong> have been added to your balance. They are used once your daily minutes run out and never expire.</p>
<p><a href="{{.DashboardURL}}" style="background: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Go to Dashboard</a></p>
<p>Amount paid: <strong>{{.Price}}</strong></p>
<p>Best regards,<br>The {{.Brand}} Team</p>
`

const topupHTMLFR = `<h1>Merci pour votre achat!</h1>
<p>Cher(e) {{.Name}},</p>
<p>Votre achat de <strong>{{.OfferName}}</strong> a été confirmé.</p>
<p><strong>{{.TopupMinutes}} minutes de coach IA</strong> ont été ajoutées à votre solde. Elles sont utilisées une fois vos minutes quotidiennes épuisées et n'expirent jamais.</p>
<p><a href="{{.DashboardURL}}" style="background: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Aller au tableau de bord</a></p>
<p>Montant payé: <strong>{{.Price}}</strong></p>
<p>Cordialement,<br>L'équipe {{.Brand}}</p>
`

const topupTextEN = `Thank you for your purchase!

Dear {{.Name}},

{{.TopupMinutes}} AI Coach minutes have been added to your balance.

Dashboard: {{.DashboardURL}}
Amount paid: {{.Price}}

Best regards,
The {{.Brand}} Team
`

const topupTextFR = `Merci pour votre achat!

Cher(e) {{.Name}},

{{.TopupMinutes}} minutes de coach IA ont été ajoutées à votre solde.

Tableau de bord : {{.DashboardURL}}
Montant payé : {{.Price}}

Cordialement,
L'équipe {{.Brand}}
`
