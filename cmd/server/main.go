package main

import "talentops/internal/app/server"

func main() {
	server.Run()
}
