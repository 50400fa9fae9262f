package recommend

import (
	"fmt"
	"strings"
)

// GenerateDescription builds a deterministic, SEO-friendly product
// description from the product name, its category, and an optional short
// description supplied by the admin.
func GenerateDescription(name, category, shortDescription string) string {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	short := strings.TrimSpace(shortDescription)

	var b strings.Builder
	if short != "" {
		b.WriteString(short)
		if !strings.HasSuffix(short, ".") {
			b.WriteString(".")
		}
		b.WriteString(" ")
	}

	fmt.Fprintf(&b, "%s is a standout pick in our %s collection, built to deliver dependable quality day after day. ", name, strings.ToLower(category))
	fmt.Fprintf(&b, "Thoughtfully designed and easy to use, it fits seamlessly into your routine whether at home, at work, or on the go. ")
	fmt.Fprintf(&b, "Order the %s today and see why shoppers keep coming back to our %s range.", name, strings.ToLower(category))

	return b.String()
}
