package main

// main is the entry point for the maintdoc application.
func main() {
	Execute()
}
