package repo

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/repomgr/repoman/internal/models"
)

// parseBlocks splits a "desc"/"depends"/"files" member's contents into
// %HEADER%-delimited blocks: a header line, then its value lines up to
// the next blank line or header, matching the writer's own
// "%%%s%%\n...\n\n" framing. Unknown headers are returned too; callers
// ignore what they don't recognize, per §4.2's forward-compatibility
// rule.
func parseBlocks(data []byte) map[string][]string {
	blocks := make(map[string][]string)

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var header string
	var lines []string
	flush := func() {
		if header != "" {
			blocks[header] = lines
		}
		header = ""
		lines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%") && len(line) > 1 {
			flush()
			header = strings.Trim(line, "%")
			continue
		}
		if line == "" {
			flush()
			continue
		}
		lines = append(lines, line)
	}
	flush()

	return blocks
}

// applyDescBlocks merges a parsed "desc" file's blocks into meta.
func applyDescBlocks(meta *models.PkgMeta, blocks map[string][]string) {
	str := func(key string) string {
		if v := blocks[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	num := func(key string) int64 {
		if v := blocks[key]; len(v) > 0 {
			n, _ := strconv.ParseInt(v[0], 10, 64)
			return n
		}
		return 0
	}

	meta.Filename = str("FILENAME")
	meta.Name = str("NAME")
	meta.Version = str("VERSION")
	meta.Desc = str("DESC")
	meta.Size = num("CSIZE")
	meta.ISize = num("ISIZE")
	meta.MD5Sum = str("MD5SUM")
	meta.SHA256Sum = str("SHA256SUM")
	meta.Base64Sig = str("PGPSIG")
	meta.URL = str("URL")
	meta.License = blocks["LICENSE"]
	meta.Arch = str("ARCH")
	meta.BuildDate = num("BUILDDATE")
	meta.Packager = str("PACKAGER")
}

// applyDependsBlocks merges a parsed "depends" file's blocks into meta.
func applyDependsBlocks(meta *models.PkgMeta, blocks map[string][]string) {
	meta.Depends = blocks["DEPENDS"]
	meta.Conflicts = blocks["CONFLICTS"]
	meta.Provides = blocks["PROVIDES"]
	meta.OptDepends = blocks["OPTDEPENDS"]
	meta.MakeDepends = blocks["MAKEDEPENDS"]
}

// applyFilesBlocks merges a parsed "files" file's blocks into meta.
func applyFilesBlocks(meta *models.PkgMeta, blocks map[string][]string) {
	meta.Files = blocks["FILES"]
}

// writeString writes a single-valued header block.
func writeString(w *strings.Builder, header, value string) {
	fmt.Fprintf(w, "%%%s%%\n%s\n\n", header, value)
}

// writeLong writes an integer-valued header block.
func writeLong(w *strings.Builder, header string, value int64) {
	fmt.Fprintf(w, "%%%s%%\n%d\n\n", header, value)
}

// writeList writes a list-valued header block. An empty list still
// emits the header with no body, matching write_list's unconditional
// loop (a nil alpm_list_t* produces zero iterations, not a skipped
// header).
func writeList(w *strings.Builder, header string, values []string) {
	fmt.Fprintf(w, "%%%s%%\n", header)
	for _, v := range values {
		w.WriteString(v)
		w.WriteByte('\n')
	}
	w.WriteByte('\n')
}

// renderDesc renders a package's "desc" file, field order matching
// write_desc_file.
func renderDesc(meta *models.PkgMeta) string {
	var b strings.Builder

	writeString(&b, "FILENAME", meta.Filename)
	writeString(&b, "NAME", meta.Name)
	writeString(&b, "VERSION", meta.Version)
	writeString(&b, "DESC", meta.Desc)
	writeLong(&b, "CSIZE", meta.Size)
	writeLong(&b, "ISIZE", meta.ISize)
	writeString(&b, "MD5SUM", meta.MD5Sum)
	writeString(&b, "SHA256SUM", meta.SHA256Sum)
	if meta.Base64Sig != "" {
		writeString(&b, "PGPSIG", meta.Base64Sig)
	}
	writeString(&b, "URL", meta.URL)
	writeList(&b, "LICENSE", meta.License)
	writeString(&b, "ARCH", meta.Arch)
	writeLong(&b, "BUILDDATE", meta.BuildDate)
	writeString(&b, "PACKAGER", meta.Packager)

	return b.String()
}

// renderDepends renders a package's "depends" file, field order
// matching write_depends_file.
func renderDepends(meta *models.PkgMeta) string {
	var b strings.Builder

	writeList(&b, "DEPENDS", meta.Depends)
	writeList(&b, "CONFLICTS", meta.Conflicts)
	writeList(&b, "PROVIDES", meta.Provides)
	writeList(&b, "OPTDEPENDS", meta.OptDepends)
	writeList(&b, "MAKEDEPENDS", meta.MakeDepends)

	return b.String()
}

// renderFiles renders a package's "files" file, matching
// write_files_file.
func renderFiles(meta *models.PkgMeta) string {
	var b strings.Builder
	writeList(&b, "FILES", meta.Files)
	return b.String()
}
