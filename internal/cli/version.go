package cli

import (
	"fmt"
	"io"

	"github.com/autobrr/go-vtsdemux/internal/report"
)

var appVersion = "dev"

func SetVersion(version string) {
	if version != "" {
		appVersion = version
	}
	report.SetAppVersion(version)
}

func Version(stdout io.Writer) {
	fmt.Fprintf(stdout, "%s, %s\n", report.AppName, report.FormatVersion(appVersion))
}
