package parse

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

var scriptLoaders = map[string]api.Loader{
	".js":  api.LoaderJS,
	".mjs": api.LoaderJS,
	".jsx": api.LoaderJSX,
	".ts":  api.LoaderTS,
	".css": api.LoaderCSS,
}

// Script validates a front-end asset with esbuild's parser. Extensions
// esbuild cannot parse (.scss, .less) are returned unvalidated.
func Script(path string, src []byte) (*lint.ScriptSource, error) {
	ext := strings.ToLower(filepath.Ext(path))
	out := &lint.ScriptSource{
		Loader: strings.TrimPrefix(ext, "."),
		Source: string(src),
	}

	loader, ok := scriptLoaders[ext]
	if !ok {
		return out, nil
	}

	result := api.Transform(out.Source, api.TransformOptions{
		Loader:     loader,
		Sourcefile: path,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		line := 0
		if msg.Location != nil {
			line = msg.Location.Line
		}
		return nil, newError(lint.FormatScript, path, line, errors.New(msg.Text))
	}

	out.Validated = true
	return out, nil
}
