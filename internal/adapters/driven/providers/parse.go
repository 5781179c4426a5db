package providers

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// installedMarker matches both "[installed]" and "[installed: 1.2-1]".
const installedMarker = "[installed"

// parseRepoListing parses the two-line records printed by pacman -Ss and
// the AUR helpers:
//
//	extra/firefox 130.0-1 [installed]
//	    Fast, Private & Safe Web Browser
//
// keep filters on the repository prefix. Indented lines without a header
// are ignored.
func parseRepoListing(output []byte, source domain.SourceKind, keep func(repo string) bool) []domain.PackageRecord {
	var records []domain.PackageRecord
	var current *domain.PackageRecord

	flush := func() {
		if current != nil {
			records = append(records, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if current != nil && current.Description == "" {
				current.Description = strings.TrimSpace(line)
			}
			continue
		}

		flush()

		fields := strings.Fields(line)
		repo, name, found := strings.Cut(fields[0], "/")
		if !found {
			name, repo = repo, ""
		}
		if name == "" || (keep != nil && !keep(repo)) {
			continue
		}

		rec := domain.PackageRecord{
			Name:      name,
			Source:    source,
			Installed: strings.Contains(strings.ToLower(line), installedMarker),
		}
		if len(fields) > 1 {
			rec.Version = fields[1]
		}
		current = &rec
	}
	flush()

	return records
}

// parseFirstColumn returns the set of first whitespace-separated fields,
// as printed by pacman -Q and flatpak list --columns=application.
func parseFirstColumn(output []byte) map[string]bool {
	names := make(map[string]bool)
	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			names[fields[0]] = true
		}
	}
	return names
}

// parseFlatpakSearch parses tab-separated flatpak search rows of
// name, description, application id and version. The description becomes
// "Name - summary" and the application id is the record name.
func parseFlatpakSearch(output []byte) []domain.PackageRecord {
	var records []domain.PackageRecord
	for _, line := range strings.Split(string(output), "\n") {
		cols := strings.Split(line, "\t")
		if len(cols) < 3 {
			continue
		}
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		if isFlatpakHeader(cols) {
			continue
		}

		displayName, summary, appID := cols[0], cols[1], cols[2]
		if appID == "" {
			continue
		}

		rec := domain.PackageRecord{
			Name:        appID,
			Description: displayName + " - " + summary,
			Source:      domain.SourceSandboxed,
		}
		if len(cols) > 3 {
			rec.Version = cols[3]
		}
		records = append(records, rec)
	}
	return records
}

func isFlatpakHeader(cols []string) bool {
	return strings.EqualFold(cols[0], "Name") && strings.EqualFold(cols[2], "Application ID")
}

// markInstalled sets Installed on every record whose name is in installed.
func markInstalled(records []domain.PackageRecord, installed map[string]bool) {
	for i := range records {
		if installed[records[i].Name] {
			records[i].Installed = true
		}
	}
}

// parsePackageInfo parses the key/value description printed by pacman -Si,
// the AUR helpers' -Si and flatpak info or remote-info. pacman pads keys
// and separates with " : ", wrapping long values onto indented lines.
// flatpak right-aligns "Key: value" under a "Name - summary" title line.
// Only the first package block is read.
func parsePackageInfo(output []byte, source domain.SourceKind) domain.PackageDetails {
	d := domain.PackageDetails{Source: source}
	seen := make(map[string]bool)
	padded := false
	var title string

	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimRight(line, " \r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indented := line[0] == ' ' || line[0] == '\t'

		var key, value string
		switch {
		case !indented && strings.Contains(line, " : "):
			key, value, _ = strings.Cut(line, " : ")
			padded = true
		case padded && indented:
			if n := len(d.Fields); n > 0 {
				d.Fields[n-1].Value += "; " + trimmed
			}
			continue
		default:
			k, v, found := strings.Cut(trimmed, ":")
			if !found || k == "" || strings.ContainsAny(k, " \t") {
				if len(d.Fields) == 0 && title == "" {
					title = trimmed
				}
				continue
			}
			key, value = k, v
		}

		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if seen[key] {
			break
		}
		seen[key] = true
		d.Fields = append(d.Fields, domain.DetailField{Key: key, Value: value})
	}

	for _, f := range d.Fields {
		v := f.Value
		if v == "None" {
			v = ""
		}
		switch f.Key {
		case "Name", "ID":
			d.Name = v
		case "Version":
			d.Version = v
		case "Description":
			d.Description = v
		case "URL":
			d.URL = v
		case "Licenses", "License":
			d.License = v
		case "Installed Size", "Installed":
			d.Size = v
		case "Download Size", "Download":
			if d.Size == "" {
				d.Size = v
			}
		case "Maintainer":
			d.Maintainer = v
		case "Packager":
			if d.Maintainer == "" {
				d.Maintainer = v
			}
		case "Last Modified":
			d.LastUpdated = v
		case "Build Date", "Date":
			if d.LastUpdated == "" {
				d.LastUpdated = v
			}
		}
	}
	if d.Description == "" {
		d.Description = title
	}
	return d
}

// parseInstalledListing parses "name version" lines as printed by
// pacman -Qn and -Qm.
func parseInstalledListing(output []byte, source domain.SourceKind) []domain.PackageRecord {
	var records []domain.PackageRecord
	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		records = append(records, domain.PackageRecord{
			Name:      fields[0],
			Version:   fields[1],
			Source:    source,
			Installed: true,
		})
	}
	return records
}

// parseFlatpakInstalled parses tab-separated flatpak list rows of name,
// application id and version.
func parseFlatpakInstalled(output []byte) []domain.PackageRecord {
	var records []domain.PackageRecord
	for _, line := range strings.Split(string(output), "\n") {
		cols := strings.Split(line, "\t")
		if len(cols) < 2 {
			continue
		}
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		if cols[1] == "" || strings.EqualFold(cols[1], "Application ID") {
			continue
		}

		rec := domain.PackageRecord{
			Name:        cols[1],
			Description: cols[0],
			Source:      domain.SourceSandboxed,
			Installed:   true,
		}
		if len(cols) > 2 {
			rec.Version = cols[2]
		}
		records = append(records, rec)
	}
	return records
}
