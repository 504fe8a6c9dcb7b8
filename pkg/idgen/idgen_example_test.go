package idgen_test

import (
	"fmt"

	"github.com/jimyag/sdfgen/pkg/idgen"
)

func ExampleGenerator_GenerateComposeID() {
	gen := idgen.New()

	composeID, err := gen.GenerateComposeID()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if len(composeID) > 8 && composeID[:8] == "compose-" {
		fmt.Println("Compose ID format is correct")
	}
	// Output: Compose ID format is correct
}

func ExampleDefaultGenerator() {
	gen := idgen.DefaultGenerator()

	composeID, err := gen.GenerateComposeID()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if len(composeID) > 8 && composeID[:8] == "compose-" {
		fmt.Println("Using default generator")
	}
	// Output: Using default generator
}

func ExampleGenerateComposeID() {
	composeID, err := idgen.GenerateComposeID()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if len(composeID) > 8 && composeID[:8] == "compose-" {
		fmt.Println("Using package-level function")
	}
	// Output: Using package-level function
}
