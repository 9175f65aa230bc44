package script

import "text/template"

func tmpl(name, body string) *template.Template {
	return template.Must(template.New(name).Parse(body))
}

// The provisioning framework injects msg_info, msg_ok, and catch_errors into
// the execution environment before running these scripts.

var headerTmpl = tmpl("header", `#!/usr/bin/env bash

# {{.Name}} installer
# Source: https://github.com/{{.Owner}}/{{.Repo}} (branch: {{.Branch}})

catch_errors
`)

var nodeDepsTmpl = tmpl("node-deps", `
msg_info "Installing dependencies"
{{- if .Alpine}}
apk add --no-cache curl git nodejs npm
{{- else}}
apt-get update
apt-get install -y curl git ca-certificates
curl -fsSL https://deb.nodesource.com/setup_{{.NodeMajor}}.x | bash -
apt-get install -y nodejs
{{- end}}
msg_ok "Installed dependencies"
`)

var nodeBuildTmpl = tmpl("node-build", `
msg_info "Setting up {{.Name}}"
git clone -b {{.Branch}} {{.CloneURL}} {{.InstallDir}}
cd {{.InstallDir}}
npm install
{{- if .BuildCommand}}
{{.BuildCommand}}
{{- end}}
msg_ok "Set up {{.Name}}"
`)

var pythonDepsTmpl = tmpl("python-deps", `
msg_info "Installing dependencies"
{{- if .Alpine}}
apk add --no-cache curl git python3 py3-pip py3-virtualenv
{{- else}}
apt-get update
apt-get install -y curl git ca-certificates python3 python3-venv python3-pip
{{- end}}
msg_ok "Installed dependencies"
`)

var pythonBuildTmpl = tmpl("python-build", `
msg_info "Setting up {{.Name}}"
git clone -b {{.Branch}} {{.CloneURL}} {{.InstallDir}}
cd {{.InstallDir}}
python3 -m venv .venv
if [ -f requirements.txt ]; then
  .venv/bin/pip install -r requirements.txt
elif [ -f pyproject.toml ]; then
  .venv/bin/pip install .
fi
msg_ok "Set up {{.Name}}"
`)

var dockerDepsTmpl = tmpl("docker-deps", `
msg_info "Installing Docker"
{{- if .Alpine}}
apk add --no-cache docker docker-cli-compose git
rc-update add docker default
service docker start
{{- else}}
apt-get update
apt-get install -y curl git ca-certificates
install -m 0755 -d /etc/apt/keyrings
curl -fsSL https://download.docker.com/linux/debian/gpg -o /etc/apt/keyrings/docker.asc
echo "deb [signed-by=/etc/apt/keyrings/docker.asc] https://download.docker.com/linux/debian $(. /etc/os-release && echo $VERSION_CODENAME) stable" >/etc/apt/sources.list.d/docker.list
apt-get update
apt-get install -y docker-ce docker-ce-cli containerd.io docker-compose-plugin
{{- end}}
msg_ok "Installed Docker"
`)

var dockerBuildTmpl = tmpl("docker-build", `
msg_info "Deploying {{.Name}}"
git clone -b {{.Branch}} {{.CloneURL}} {{.InstallDir}}
cd {{.InstallDir}}
if [ -f docker-compose.yml ] || [ -f docker-compose.yaml ] || [ -f compose.yml ] || [ -f compose.yaml ]; then
  docker compose up -d
else
  docker build -t {{.Slug}} .
  docker run -d --name {{.Slug}} --restart unless-stopped{{if .Port}} -p {{.Port}}:{{.Port}}{{end}} {{.Slug}}
fi
msg_ok "Deployed {{.Name}}"
`)

var goDepsTmpl = tmpl("go-deps", `
msg_info "Installing dependencies"
{{- if .Alpine}}
apk add --no-cache curl git
{{- else}}
apt-get update
apt-get install -y curl git ca-certificates
{{- end}}
curl -fsSL https://go.dev/dl/go{{.GoVersion}}.linux-amd64.tar.gz -o /tmp/go.tar.gz
rm -rf /usr/local/go
tar -C /usr/local -xzf /tmp/go.tar.gz
rm /tmp/go.tar.gz
export PATH=$PATH:/usr/local/go/bin
msg_ok "Installed dependencies"
`)

var goBuildTmpl = tmpl("go-build", `
msg_info "Building {{.Name}}"
git clone -b {{.Branch}} {{.CloneURL}} {{.InstallDir}}
cd {{.InstallDir}}
/usr/local/go/bin/go build -o {{.Slug}} .
msg_ok "Built {{.Name}}"
`)

var rustDepsTmpl = tmpl("rust-deps", `
msg_info "Installing dependencies"
{{- if .Alpine}}
apk add --no-cache curl git build-base
{{- else}}
apt-get update
apt-get install -y curl git ca-certificates build-essential
{{- end}}
curl -fsSL https://sh.rustup.rs | sh -s -- -y --profile minimal
source "$HOME/.cargo/env"
msg_ok "Installed dependencies"
`)

var rustBuildTmpl = tmpl("rust-build", `
msg_info "Building {{.Name}}"
git clone -b {{.Branch}} {{.CloneURL}} {{.InstallDir}}
cd {{.InstallDir}}
"$HOME/.cargo/bin/cargo" build --release
msg_ok "Built {{.Name}}"
`)

var genericDepsTmpl = tmpl("generic-deps", `
msg_info "Installing dependencies"
{{- if .Alpine}}
apk add --no-cache curl git
{{- else}}
apt-get update
apt-get install -y curl git ca-certificates
{{- end}}
msg_ok "Installed dependencies"
`)

var genericBuildTmpl = tmpl("generic-build", `
msg_info "Fetching {{.Name}}"
git clone -b {{.Branch}} {{.CloneURL}} {{.InstallDir}}
msg_ok "Fetched {{.Name}} into {{.InstallDir}}"
`)
