package main

import "mpadmin/internal/app/server"

func main() {
	server.Run()
}
