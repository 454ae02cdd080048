package main

import (
	"context"

	"gdpetl/cmd/gdp-etl/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
