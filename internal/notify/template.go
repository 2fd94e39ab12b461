package notify

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

// Data is what param templates see. Counts are zero for a failed run.
type Data struct {
	Upgrade     int
	Install     int
	Remove      int
	NotUpgraded int
	Upgradable  int
	Time        time.Time
	Failed      bool
	Message     string
}

// Render executes a Go text/template string with Sprig functions over data.
func Render(tmplStr string, data Data) (string, error) {
	t, err := template.New("notify").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}
