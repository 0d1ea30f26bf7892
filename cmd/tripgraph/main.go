// Command tripgraph is the CLI front end of the trip-planning workflow.
package main

func main() {
	Execute()
}
