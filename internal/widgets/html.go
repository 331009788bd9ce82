package widgets

import (
	"fmt"
)

// H wraps text in a heading tag. level is not validated.
func H(level int, text string) string {
	return fmt.Sprintf("<h%d>%s</h%d>", level, text, level)
}

// P wraps text in a paragraph tag
func P(text string) string {
	return "<p>" + text + "</p>"
}

// Header renders the report header: image on the left, analyst metadata on
// the right.
func Header(image, author, date, time, timezone, title string) string {
	return fmt.Sprintf(`
        <div style="display:flex; margin-bottom:1cm;">
            %s
            <div style="margin-left:2em">
                <p><b>Analyst:</b> %s</p>
                <p><b>Date   :</b> %s</p>
                <p><b>Time   :</b> %s %s</p>
                <br/>
                <p>%s</p>
            </div>
        </div>`, image, author, date, time, timezone, title)
}
