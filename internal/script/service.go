package script

import (
	"strings"
	"text/template"
)

// Long-lived runtimes get a service unit with Restart=always and a 10 second
// restart delay. Debian targets use systemd, Alpine targets use OpenRC.

type serviceData struct {
	scriptData
	ExecStart string
}

var systemdTmpl = template.Must(template.New("systemd").Parse(`
msg_info "Creating service"
cat <<EOF >/etc/systemd/system/{{.Slug}}.service
[Unit]
Description={{.Name}}
After=network.target

[Service]
Type=simple
WorkingDirectory={{.InstallDir}}
ExecStart={{.ExecStart}}
Restart=always
RestartSec=10
{{- if .Port}}
Environment=PORT={{.Port}}
{{- end}}

[Install]
WantedBy=multi-user.target
EOF
systemctl enable -q --now {{.Slug}}
msg_ok "Created service"
`))

var openrcTmpl = template.Must(template.New("openrc").Parse(`
msg_info "Creating service"
cat <<EOF >/etc/init.d/{{.Slug}}
#!/sbin/openrc-run

name="{{.Name}}"
directory="{{.InstallDir}}"
command="{{.ExecStart}}"
command_background="yes"
pidfile="/run/{{.Slug}}.pid"
respawn_delay=10
{{- if .Port}}
export PORT={{.Port}}
{{- end}}

depend() {
    need net
}
EOF
chmod +x /etc/init.d/{{.Slug}}
rc-update add {{.Slug}} default
rc-service {{.Slug}} start
msg_ok "Created service"
`))

func serviceSection(data scriptData, execStart string) Section {
	sd := serviceData{scriptData: data, ExecStart: execStart}
	t := systemdTmpl
	if data.Alpine {
		t = openrcTmpl
	}

	var b strings.Builder
	if err := t.Execute(&b, sd); err != nil {
		panic("service template: " + err.Error())
	}
	return Section{Name: "service", Body: b.String()}
}
