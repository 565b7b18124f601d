package main

import "kassa_backend/internal/app"

func main() {
	app.Run()
}
