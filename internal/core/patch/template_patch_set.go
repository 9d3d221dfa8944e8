package patch

import "ppdeploy/internal/core/domain"

// GenericTitle is the page title the upstream templates ship with.
const GenericTitle = "Simple Bookstore App"

// TitleText is the parameterized page title. Both labels are rendered by
// Jinja at request time: TEAM_ID from the keyword threaded into the render
// calls, APP_OWNER from the template global set next to the Flask app.
// Jinja autoescapes them in HTML templates.
const TitleText = `Product Page - {{ APP_OWNER|default("` + domain.UnknownLabel + `") }} - Team {{ ` + TeamIDKeyword + ` }}`

const TitleBlock = "{% block title %}" + TitleText + "{% endblock %}"

// titleBlock spans one Jinja title block, tolerating whitespace control
// markers and a named endblock. The match is non-greedy so two blocks in one
// file are two matches.
var titleBlock = Regexp(`(?is)\{%-?\s*block\s+title\s*-?%\}.*?\{%-?\s*endblock(?:\s+title)?\s*-?%\}`)

// TemplateOperations patches one HTML template: every occurrence of the
// generic title is replaced, then the single title block is rewritten. A
// template without the generic title is fine; one without exactly one title
// block is not.
func TemplateOperations() []Operation {
	return []Operation{
		{
			Name:     "title-literal",
			Marker:   Literal(TitleText),
			Locate:   Literal(GenericTitle),
			Action:   ReplaceLiteral,
			Payload:  TitleText,
			Select:   SelectAll,
			Optional: true,
		},
		{
			Name:    "title-block",
			Locate:  titleBlock,
			Action:  ReplaceMatch,
			Payload: TitleBlock,
			Select:  SelectExactlyOne,
		},
	}
}
