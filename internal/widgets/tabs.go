package widgets

import (
	"fmt"
	"strings"
)

// tabsPerLine is how many tab buttons fit on one line of the tab bar
const tabsPerLine = 5

// SummaryTab is the tab id activated when the page loads
const SummaryTab = "SUMMARY"

const tabSwitchScript = `
        <script>
        function menu(evt, menu_name) {
          var i, tabcontent, tablinks;
          tabcontent = document.getElementsByClassName("tabcontent");
          for (i = 0; i < tabcontent.length; i++) {
            tabcontent[i].style.display = "none";
          }
          tablinks = document.getElementsByClassName("tablinks");
          for (i = 0; i < tablinks.length; i++) {
            tablinks[i].className = tablinks[i].className.replace(" active", "");
            tablinks[i].style.backgroundColor = "white";
            tablinks[i].style.color = "black";
          }
          document.getElementById(menu_name).style.display = "block";

          evt.currentTarget.className += " active";
          evt.currentTarget.style.backgroundColor = "black";
          evt.currentTarget.style.color = "white";
        }

        window.onload=function(){
            menu(event, '` + SummaryTab + `');
        };
        </script>`

// Tab wraps htmlcode in a hidden tab section headed by an editable comment
// box. title is both the section id and the target used by TabLinks.
func Tab(title, htmlcode string) string {
	return fmt.Sprintf(`<div id="%s" class="tabcontent"><br/>
        <p style="border:3px; border-style:solid;
            border-color:#000000; padding: 1em; width: 1050px;" contentEditable="true">
                No comment.
        </p>%s
    </div>`, title, htmlcode)
}

// TabSwitchScript returns the script that switches between tabs and opens
// the SUMMARY tab on load. Include it once, after the tab sections.
func TabSwitchScript() string {
	return tabSwitchScript
}

// TabLinks renders one button per tab, breaking the bar after every fifth
func TabLinks(tabs []string) string {
	var buf strings.Builder
	buf.WriteString(`<div class="tab">`)
	for idx, tab := range tabs {
		fmt.Fprintf(&buf, `<button class="tablinks" onclick="menu(event, '%s')">%s</button>`, tab, tab)
		if (idx+1)%tabsPerLine == 0 {
			buf.WriteString("<br/>")
		}
	}
	buf.WriteString("</div>")
	return buf.String()
}
