package registration

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Summary renders p as Markdown for review before sending. Labels come from
// the catalog; photo is the staged photo path or "".
func Summary(p Payload, catalog Catalog, photo string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Registration as %s\n\n", p.CreatorType.Label())

	b.WriteString("## Profile\n\n")
	for _, f := range ProfileFields {
		v := strings.TrimSpace(p.Get(f))
		if v == "" {
			continue
		}
		fmt.Fprintf(&b, "- **%s**: %s\n", fieldTitle(f), v)
	}

	b.WriteString("\n## Services\n\n")
	b.WriteString("| Service | Price | Unit |\n|---|---:|---|\n")
	for _, s := range p.Services {
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			optionLabel(catalog.Services(p.CreatorType), s.ServiceName),
			strconv.FormatFloat(s.Price, 'f', -1, 64), s.Unit)
	}

	b.WriteString("\n## Portfolio\n\n")
	if len(p.Portfolio) == 0 {
		b.WriteString("_No links_\n")
	}
	for _, u := range p.Portfolio {
		fmt.Fprintf(&b, "- <%s>\n", u)
	}

	b.WriteString("\n## Payment methods\n\n")
	if len(p.PaymentMethods) == 0 {
		b.WriteString("_None_\n")
	} else {
		labels := make([]string, 0, len(p.PaymentMethods))
		for _, id := range p.PaymentMethods {
			labels = append(labels, optionLabel(catalog.PaymentMethods, id))
		}
		b.WriteString(strings.Join(labels, ", ") + "\n")
	}

	if photo != "" {
		fmt.Fprintf(&b, "\n## Profile photo\n\n`%s`\n", filepath.Base(photo))
	}
	return b.String()
}

func optionLabel(opts []Option, id string) string {
	for _, o := range opts {
		if o.ID == id {
			return o.Label
		}
	}
	return id
}

func fieldTitle(f ProfileField) string {
	words := strings.Split(string(f), "_")
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
