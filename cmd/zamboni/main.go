// Command zamboni queries the Zamboni report APIs from the terminal.
package main

func main() {
	Execute()
}
