package email

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/campaignbridge/campaignbridge/internal/domain"
)

// =============================================================================
// Document Shell
// =============================================================================
//
// buildEmailHeader and buildEmailFooter are a strict pair: the footer closes
// exactly the tags the header opens, in reverse order
// (td,tr,table,td,tr,table,body,html). Any change to one must change the
// other; shell_test.go enforces the parity.

// buildEmailHeader emits the DOCTYPE, head (charset/viewport meta, Outlook
// conditional, embedded resets and the responsive media query), and opens
// the centered wrapper tables.
func buildEmailHeader(opts domain.EmailOptions) string {
	background := safeCSSValue(opts.BackgroundColor)
	if background == "" {
		background = domain.DefaultBackgroundColor
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="%s" xmlns="http://www.w3.org/1999/xhtml">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1.0" />
<meta http-equiv="X-UA-Compatible" content="IE=edge" />
<!--[if mso]>
<xml>
<o:OfficeDocumentSettings>
<o:PixelsPerInch>96</o:PixelsPerInch>
</o:OfficeDocumentSettings>
</xml>
<![endif]-->
<title>%s</title>
<style>
body, table, td { margin: 0; padding: 0; }
table { border-collapse: collapse; }
img { border: 0; line-height: 100%%; outline: none; text-decoration: none; }
@media (max-width: %dpx) {
.email-container { width: 100%% !important; }
.email-content { padding: 16px !important; }
.mobile-stack { display: block !important; width: 100%% !important; }
}
</style>
</head>
<body style="%s">
<table role="presentation" width="100%%" cellpadding="0" cellspacing="0" border="0" style="background-color: %s;">
<tr>
<td align="center">
<table role="presentation" class="email-container" width="%d" cellpadding="0" cellspacing="0" border="0" style="%s">
<tr>
<td class="email-content" style="padding: 24px;">
`,
		escapeAttr(langAttr(opts.Locale)),
		escapeHTML(opts.Title),
		opts.Width,
		styleAttr(
			"margin", "0",
			"padding", "0",
			"background-color", background,
			"font-family", opts.FontFamily,
			"color", opts.TextColor,
		),
		background,
		opts.Width,
		styleAttr(
			"width", fmt.Sprintf("%dpx", opts.Width),
			"max-width", fmt.Sprintf("%dpx", opts.MaxWidth),
			"background-color", background,
		),
	)
}

// buildEmailFooter closes the scaffold opened by buildEmailHeader.
func buildEmailFooter() string {
	return `
</td>
</tr>
</table>
</td>
</tr>
</table>
</body>
</html>`
}

// langAttr normalizes the caller-supplied locale into a valid BCP 47 tag,
// falling back to the default when it cannot be parsed.
func langAttr(locale string) string {
	if locale == "" {
		return domain.DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return domain.DefaultLocale
	}
	return tag.String()
}
