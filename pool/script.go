package pool

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf16"
)

// EncodeScript encodes a script for powershell.exe -EncodedCommand, which
// expects base64 over UTF-16LE.
func EncodeScript(script string) string {
	codes := utf16.Encode([]rune(script))
	buf := make([]byte, 0, len(codes)*2)
	for _, c := range codes {
		buf = append(buf, byte(c), byte(c>>8))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// psQuote single-quotes a value for PowerShell. Inside single quotes the
// only escape is a doubled quote.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Every script imports WebAdministration so the IIS: provider and the
// WebAppPool cmdlets exist in the fresh process the runner spawns.
const prelude = "$ErrorActionPreference = 'Stop'\nImport-Module WebAdministration\n"

func recycleScript(name string) string {
	return prelude + fmt.Sprintf("Restart-WebAppPool -Name %s\n", psQuote(name))
}

func startScript(name string) string {
	return prelude + fmt.Sprintf("Start-WebAppPool -Name %s\n", psQuote(name))
}

func stopScript(name string, passThru bool) string {
	s := "$ErrorActionPreference = 'SilentlyContinue'\nImport-Module WebAdministration\n"
	if passThru {
		return s + fmt.Sprintf(
			"Stop-WebAppPool -Name %s -Passthru -ErrorAction SilentlyContinue |\n"+
				"  Select-Object Name, @{n='State';e={[string]$_.State}} |\n"+
				"  ConvertTo-Json -Compress\n", psQuote(name))
	}
	return s + fmt.Sprintf("Stop-WebAppPool -Name %s -ErrorAction SilentlyContinue\n", psQuote(name))
}

// queryScript emits a JSON state record, or nothing when the pool's state
// does not match the filter. An empty filter matches any state.
func queryScript(name, stateFilter string) string {
	return prelude + fmt.Sprintf(
		"$state = (Get-WebAppPoolState -Name %[1]s).Value\n"+
			"if (%[2]s -eq '' -or $state -eq %[2]s) {\n"+
			"  @{ Name = %[1]s; State = [string]$state } | ConvertTo-Json -Compress\n"+
			"}\n",
		psQuote(name), psQuote(stateFilter))
}

// lookupScript emits the names of sites bound to the pool as a JSON array,
// always an array even for zero or one site.
func lookupScript(name string) string {
	return prelude + fmt.Sprintf(
		"$sites = @(Get-Website | Where-Object { $_.applicationPool -eq %s } |\n"+
			"  Select-Object -ExpandProperty name)\n"+
			"ConvertTo-Json -InputObject $sites -Compress\n",
		psQuote(name))
}
