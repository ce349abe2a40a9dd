package config

import _ "embed"

//go:embed defaults/machine.yaml
var defaultMachineYAML []byte
