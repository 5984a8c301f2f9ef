package main

import (
	"context"
	"log"

	"github.com/ammiranda/nestedset_service/internal/lambda"
	"github.com/ammiranda/nestedset_service/repository"

	awslambda "github.com/aws/aws-lambda-go/lambda"
)

func main() {
	repo := repository.NewMockRepository()
	if err := repo.Initialize(context.Background()); err != nil {
		log.Fatal("Failed to initialize repository:", err)
	}

	handler := lambda.NewHandler(repo)

	awslambda.Start(handler.Handle)
}
