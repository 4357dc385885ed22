/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package main

import "github.com/dogukanveziroglu/DailyReporter/cmd"

func main() {
	cmd.Execute()
}
