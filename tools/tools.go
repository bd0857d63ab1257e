//go:build tools

// Пакет tools фиксирует генераторы контракта proto/pharmacy/v1.
// Они ставятся вручную, версии совпадают с заголовками сгенерированных файлов:
//
//	go install google.golang.org/protobuf/cmd/protoc-gen-go@v1.36.11
//	go install google.golang.org/grpc/cmd/protoc-gen-go-grpc@v1.6.0
//
// Затем: go generate ./proto/...
package tools
