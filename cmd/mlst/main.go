// cmd/mlst/main.go
package main

import (
	"mlst/internal/app"
	"mlst/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
