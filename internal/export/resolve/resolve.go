// Package resolve generates a DaVinci Resolve import script plus a short
// README for a finished split. Generation is pure text templating over the
// ordered clip list; nothing here talks to Resolve itself.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/forPelevin/vidsplit/internal/types"
)

const (
	ScriptFilename = "import_to_resolve.lua"
	ReadmeFilename = "RESOLVE_IMPORT.md"
)

var scriptTmpl = template.Must(template.New("script").Parse(`-- Auto-generated DaVinci Resolve import script for project "{{.Project}}".
-- Run from Workspace > Console (Lua) inside Resolve.

local resolve = Resolve()
local projectManager = resolve:GetProjectManager()
local project = projectManager:CreateProject("{{.Project}}")
if project == nil then
    project = projectManager:LoadProject("{{.Project}}")
end

local mediaStorage = resolve:GetMediaStorage()
local mediaPool = project:GetMediaPool()

local clips = {
{{- range .Clips}}
    "{{.Filepath}}",
{{- end}}
}

local items = mediaStorage:AddItemsToMediaPool(clips)
if items ~= nil then
    mediaPool:CreateTimelineFromClips("{{.Project}} Timeline", items)
end

print("Imported {{len .Clips}} clips into {{.Project}}")
`))

var readmeTmpl = template.Must(template.New("readme").Parse(`# {{.Project}} - Resolve Import

{{len .Clips}} clips, in timeline order:

| # | File | Start | Duration |
|---|------|-------|----------|
{{- range .Clips}}
| {{.ClipNumber}} | {{.Filename}} | {{printf "%.1fs" .StartTime}} | {{printf "%.1fs" .Duration}} |
{{- end}}

Open DaVinci Resolve, go to Workspace > Console, switch the console to Lua
and run ` + "`" + ScriptFilename + "`" + ` from this directory.
`))

type projectData struct {
	Project string
	Clips   []types.ClipRecord
}

// Script renders the Lua import script for the given ordered clips.
func Script(project string, clips []types.ClipRecord) (string, error) {
	var b strings.Builder
	if err := scriptTmpl.Execute(&b, projectData{Project: project, Clips: clips}); err != nil {
		return "", fmt.Errorf("render resolve script: %w", err)
	}
	return b.String(), nil
}

// Readme renders the companion import instructions.
func Readme(project string, clips []types.ClipRecord) (string, error) {
	var b strings.Builder
	if err := readmeTmpl.Execute(&b, projectData{Project: project, Clips: clips}); err != nil {
		return "", fmt.Errorf("render resolve readme: %w", err)
	}
	return b.String(), nil
}

// WriteProject writes the script and README into dir.
func WriteProject(dir, project string, clips []types.ClipRecord) error {
	script, err := Script(project, clips)
	if err != nil {
		return err
	}
	readme, err := Readme(project, clips)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ScriptFilename), []byte(script), 0o644); err != nil {
		return fmt.Errorf("write resolve script: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ReadmeFilename), []byte(readme), 0o644); err != nil {
		return fmt.Errorf("write resolve readme: %w", err)
	}
	return nil
}
