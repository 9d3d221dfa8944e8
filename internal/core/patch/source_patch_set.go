package patch

import (
	"regexp"
	"slices"
	"strings"

	"ppdeploy/internal/core/domain"
)

const (
	// TeamIDConstantMarker proves the monolith was patched. The validator
	// checks for it after every run.
	TeamIDConstantMarker = `TEAM_ID_VALUE = os.environ.get("TEAM_ID"`
	TeamIDKeyword        = "TEAM_ID"
	TeamIDArgument       = TeamIDKeyword + "=TEAM_ID_VALUE"
	// OwnerGlobal exposes APP_OWNER to every template rendered by the app.
	OwnerGlobal     = `app.jinja_env.globals["APP_OWNER"] = APP_OWNER`
	WildcardAddress = "0.0.0.0"

	importOs      = "import os\n"
	configGlobals = `TEAM_ID = os.getenv("TEAM_ID", "` + domain.UnknownLabel + `")` + "\n" +
		`APP_OWNER = os.getenv("APP_OWNER", "` + domain.UnknownLabel + `")` + "\n"
	teamIDConstant = `TEAM_ID_VALUE = os.environ.get("TEAM_ID", "` + domain.UnknownLabel + `")` + "\n"
)

var (
	// futureImportBlock is the first contiguous run of __future__ imports.
	// Those must stay at the top of a module, so insertions go after them.
	futureImportBlock = Regexp(`(?m)^(?:from[ \t]+__future__[ \t]+import[^\n]*\n)+`)
	// startOfModule skips a shebang and an encoding declaration, both of
	// which only work on the first lines.
	startOfModule = Regexp(`\A(?:#![^\n]*\n)?(?:[ \t]*#[^\n]*coding[:=][^\n]*\n)?`)

	configGlobalsMarker = Regexp(`(?m)^TEAM_ID = os\.getenv\(`)
	appOwnerGlobal      = Regexp(`(?m)^APP_OWNER = os\.getenv\([^\n]*\)\n`)
	// moduleImportOs is a top level "import os" line. Indented imports are
	// local to a block and do not count.
	moduleImportOs = Regexp(`(?m)^import os[ \t]*(?:#[^\n]*)?\n`)
	flaskApp       = Regexp(`(?m)^app = Flask\([^\n]*\)[ \t]*\n`)

	// renderTemplateCall matches render_template(...) calls whose argument
	// list may span lines and may contain parentheses nested one level deep,
	// e.g. render_template('index.html', rows=list(rows)). Deeper nesting
	// such as f(g(x)), or an unbalanced parenthesis inside a string literal,
	// stops the match and the call is left as it is. The strict validator
	// reports a monolith where no call could be threaded.
	renderTemplateCall = Regexp(`render_template\(((?:[^()]|\([^()]*\))*)\)`)
	templateNameArg    = regexp.MustCompile(`\A\s*(?:'([^'\n]*)'|"([^"\n]*)")`)
	teamIDKeywordArg   = regexp.MustCompile(`\b` + TeamIDKeyword + `\s*=`)

	// appRunHost finds the host keyword of app.run(...). Arguments before it
	// may nest parentheses one level deep, as in port=int(p). Deeper nesting
	// hides the host and the call is left as it is.
	appRunHost = Regexp(`(app\.run\((?:[^()]|\([^()]*\))*?\bhost\s*=\s*)(['"])([^'"\n]*)(['"])`)
)

// SourceOperations patches the monolith entry file: an os import when the
// module has none, configuration globals right after it, the team id
// constant, TEAM_ID threading into the render calls of the configured
// templates and the APP_OWNER template global.
func SourceOperations(config domain.DeploymentConfig) []Operation {
	recognized := slices.Clone(config.Templates)

	return []Operation{
		{
			Name:     "import-os",
			Marker:   moduleImportOs,
			Locate:   futureImportBlock,
			Fallback: startOfModule,
			Action:   InsertAfter,
			Payload:  importOs,
			Select:   SelectFirst,
		},
		{
			Name:    "config-globals",
			Marker:  configGlobalsMarker,
			Locate:  moduleImportOs,
			Action:  InsertAfter,
			Payload: configGlobals,
			Select:  SelectFirst,
		},
		{
			Name:     "team-id-constant",
			Marker:   Literal(TeamIDConstantMarker),
			Locate:   appOwnerGlobal,
			Fallback: moduleImportOs,
			Action:   InsertAfter,
			Payload:  teamIDConstant,
			Select:   SelectFirst,
		},
		{
			Name:     "render-team-id",
			Locate:   renderTemplateCall,
			Action:   ReplaceMatch,
			Rewrite:  threadTeamID(recognized),
			Select:   SelectAll,
			Optional: true,
		},
		{
			Name:     "owner-global",
			Marker:   Literal(OwnerGlobal),
			Locate:   flaskApp,
			Action:   InsertAfter,
			Payload:  OwnerGlobal + "\n",
			Select:   SelectFirst,
			Optional: true,
		},
	}
}

// BindAddressOperations rewrites the host of app.run(...) to the wildcard
// address and keeps every other argument as written.
func BindAddressOperations() []Operation {
	return []Operation{
		{
			Name:         "bind-wildcard",
			Locate:       appRunHost,
			Action:       ReplaceMatch,
			Payload:      "${1}${2}" + WildcardAddress + "${4}",
			ExpandGroups: true,
			Select:       SelectAll,
			Optional:     true,
		},
	}
}

func threadTeamID(recognized []string) func(groups []string) (string, bool) {
	return func(groups []string) (string, bool) {
		args := groups[1]
		code := maskComments(args)
		if teamIDKeywordArg.MatchString(code) {
			return "", false
		}
		if !slices.Contains(recognized, renderedTemplate(code)) {
			return "", false
		}
		return "render_template(" + appendKeywordArgument(args, TeamIDArgument) + ")", true
	}
}

// ThreadedRenderCalls counts render calls for the given templates that
// already pass TEAM_ID. A keyword inside a comment does not count.
func ThreadedRenderCalls(text string, templates []string) int {
	count := 0
	for _, match := range renderTemplateCall.findAll(text) {
		code := maskComments(text[match[2]:match[3]])
		if slices.Contains(templates, renderedTemplate(code)) && teamIDKeywordArg.MatchString(code) {
			count++
		}
	}
	return count
}

// renderedTemplate returns the template name when the first positional
// argument is a string literal.
func renderedTemplate(args string) string {
	match := templateNameArg.FindStringSubmatch(args)
	if match == nil {
		return ""
	}
	if match[1] != "" {
		return match[1]
	}
	return match[2]
}

// appendKeywordArgument adds keyword as the last argument, keeping a trailing
// comma and the whitespace before the closing parenthesis where they were.
// When the last argument line ends in a comment the keyword goes on a line
// of its own, since appending to that line would comment it out.
func appendKeywordArgument(args string, keyword string) string {
	trimmed := strings.TrimRight(args, " \t\r\n")
	tail := args[len(trimmed):]

	code := maskComments(trimmed)
	last := len(strings.TrimRight(code, " \t\r\n")) - 1
	if last < 0 || last == len(trimmed)-1 {
		if strings.HasSuffix(trimmed, ",") {
			return trimmed + " " + keyword + "," + tail
		}
		return trimmed + ", " + keyword + tail
	}

	indent := argumentIndent(trimmed, last, tail)
	if code[last] == ',' {
		return trimmed + "\n" + indent + keyword + "," + tail
	}
	return trimmed[:last+1] + "," + trimmed[last+1:] + "\n" + indent + keyword + tail
}

// argumentIndent is the indentation of the line holding args[pos]. A call
// whose arguments start on the render_template line has no such line inside
// args, so one level deeper than the closing parenthesis is used.
func argumentIndent(args string, pos int, tail string) string {
	lineStart := strings.LastIndex(args[:pos], "\n")
	if lineStart < 0 {
		return leadingBlanks(tail[strings.LastIndex(tail, "\n")+1:]) + "    "
	}
	return leadingBlanks(args[lineStart+1:])
}

func leadingBlanks(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// maskComments blanks out Python comments in code and keeps every other byte
// in place, so offsets into the result are offsets into code. Quotes are
// tracked so a # inside a string literal is kept.
func maskComments(code string) string {
	masked := []byte(code)
	var quote byte
	for i := 0; i < len(masked); i++ {
		c := masked[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote || c == '\n' {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '#':
			for ; i < len(masked) && masked[i] != '\n'; i++ {
				masked[i] = ' '
			}
		}
	}
	return string(masked)
}
