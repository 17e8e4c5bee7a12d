package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/lysyi3m/flavor-watch/app/database"
)

// Generator renders stored matches as an RSS 2.0 document.
type Generator struct {
	selfLink  string
	sourceURL string
	version   string
}

func NewGenerator(selfLink, sourceURL, version string) *Generator {
	return &Generator{
		selfLink:  selfLink,
		sourceURL: sourceURL,
		version:   version,
	}
}

func (g *Generator) Run(records []database.MatchRecord) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", "Sweet Cow Flavor Alerts", 4)
	g.writeElement(&buf, "link", g.sourceURL, 4)
	g.writeElement(&buf, "description", fmt.Sprintf("Watched flavors found on %s", g.sourceURL), 4)

	if g.selfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(g.selfLink)))
	}

	lastBuildDate := time.Now().In(time.Local)
	if len(records) > 0 {
		lastBuildDate = records[0].FoundAt
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("FlavorWatch/%s", g.version), 4)

	for _, record := range records {
		g.writeItem(&buf, record)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, record database.MatchRecord) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(fmt.Sprintf("run-%d-%s", record.RunID, record.Wanted)))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", fmt.Sprintf("%s: %s", record.Wanted, record.Found), 6)
	g.writeElement(buf, "link", g.sourceURL, 6)

	description := fmt.Sprintf("%s is available (wanted: %s).", record.Found, record.Wanted)
	if record.Notified {
		description += fmt.Sprintf(" Alert sent to topic %s.", record.Topic)
	}
	g.writeElement(buf, "description", description, 6)
	g.writeElement(buf, "category", record.Wanted, 6)
	g.writeElement(buf, "pubDate", record.FoundAt.Format(time.RFC1123Z), 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
