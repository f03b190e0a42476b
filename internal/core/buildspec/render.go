package buildspec

import (
	"encoding/json"
	"strings"
	"text/template"
)

// dockerfileTemplate keeps the manifest copy and dependency download ahead of
// the source copy so an unchanged manifest reuses the download layer.
// Optional files are copied through a glob, which matches nothing when the
// file is absent; -mod=mod then records any missing checksums during the build.
const dockerfileTemplate = `FROM {{.BuilderImage}} AS build
WORKDIR /src
COPY {{join .Manifests " "}}{{range .Optional}} {{.}}*{{end}} ./
RUN go mod download
COPY . .
RUN go build -mod=mod -trimpath -o /out/{{.Binary}} {{.Entry}}

FROM {{.RuntimeImage}}
WORKDIR {{.WorkDir}}
COPY --from=build /out/{{.Binary}} {{.WorkDir}}/{{.Binary}}
{{range .Assets -}}
COPY --from=build /src/{{.}} ./{{.}}
{{end -}}
EXPOSE {{.Port}}
CMD {{json .Command}}
`

var dockerfile = template.Must(template.New("Dockerfile").Funcs(template.FuncMap{
	"join": strings.Join,
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}).Parse(dockerfileTemplate))

// Render returns the Dockerfile for the descriptor.
func Render(d Descriptor) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := dockerfile.Execute(&sb, d); err != nil {
		return "", err
	}
	return sb.String(), nil
}
