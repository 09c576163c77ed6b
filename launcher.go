package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

func main() {
	fmt.Println("Запуск WebChat...")

	clientName := "webchat"
	if runtime.GOOS == "windows" {
		clientName = "webchat.exe"
	}
	// запускаем сервер на фоне
	server := exec.Command("go", "run", "./cmd/server")
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr

	if err := server.Start(); err != nil {
		fmt.Printf("Ошибка запуска сервера: %v\n", err)
		return
	}

	time.Sleep(3 * time.Second)
	// собираем клиента
	if _, err := os.Stat(clientName); os.IsNotExist(err) {
		fmt.Println("Сборка клиента...")
		build := exec.Command("go", "build", "-o", clientName, "./cmd/webchat")
		build.Stdout = os.Stdout
		build.Stderr = os.Stderr
		if err := build.Run(); err != nil {
			fmt.Printf("Ошибка сборки клиента: %v\n", err)
			_ = server.Process.Kill()
			return
		}
		// если не винда даём права
		if runtime.GOOS != "windows" {
			os.Chmod(clientName, 0755)
		}
	}

	fmt.Println("Сервер запущен на http://127.0.0.1:8000 (swagger: /swagger/index.html)")
	// пишем как запускать агента
	if runtime.GOOS == "windows" {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: .\\webchat.exe signup --email you@example.com --password StrongPass123")
	} else {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: ./webchat signup --email you@example.com --password StrongPass123")
	}

	server.Wait()
}
