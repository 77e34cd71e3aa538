package main

import (
	"context"
	"log"

	"Neighborhood_Hub/internal/config"
	"Neighborhood_Hub/internal/handler"
	"Neighborhood_Hub/internal/pkg"
	"Neighborhood_Hub/internal/repository/mysql"
	redisrepo "Neighborhood_Hub/internal/repository/redis"
	"Neighborhood_Hub/internal/router"
	"Neighborhood_Hub/internal/service"
)

func main() {
	cfg := config.Load()

	pkg.AccessSecret = []byte(cfg.AccessSecret)
	pkg.RefreshSecret = []byte(cfg.RefreshSecret)

	db, err := mysql.Init(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("mysql init: %v", err)
	}
	if err := mysql.AutoMigrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	redisClient, err := redisrepo.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis init: %v", err)
	}
	defer redisClient.Close()

	var events *pkg.EventProducer
	if len(cfg.KafkaBrokers) > 0 {
		events, err = pkg.NewEventProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Fatalf("kafka init: %v", err)
		}
		defer events.Close()
	}

	var presigner *pkg.S3Presigner
	if cfg.S3Bucket != "" {
		presigner, err = pkg.NewS3Presigner(context.Background(), pkg.S3Config{
			Region:   cfg.S3Region,
			Bucket:   cfg.S3Bucket,
			Endpoint: cfg.S3Endpoint,
		})
		if err != nil {
			log.Fatalf("s3 init: %v", err)
		}
	}

	webhook := pkg.NewWebhookClient(cfg.N8NBaseURL, cfg.N8NWebhookPath, cfg.N8NSigningSecret)

	users := &mysql.UserRepository{DB: db}
	communities := &mysql.CommunityRepository{DB: db}
	memberships := &mysql.MembershipRepository{DB: db}
	posts := &mysql.PostRepository{DB: db}
	chats := &mysql.ChatRepository{DB: db}
	tokens := &redisrepo.TokenRepository{Client: redisClient}
	codes := &redisrepo.EmailRepository{Client: redisClient}

	smtp := pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}

	emailSvc := service.NewEmailService(smtp, codes)
	userSvc := service.NewUserService(users, tokens, emailSvc)
	adminSvc := service.NewAdminService(users)
	communitySvc := service.NewCommunityService(communities, memberships, events)
	postSvc := service.NewPostService(posts, communities, events)
	chatSvc := service.NewChatService(chats, communities, webhook)
	uploadSvc := service.NewUploadService(communities, presigner)

	r := router.New(router.Deps{
		Users:       users,
		Memberships: memberships,
		Tokens:      tokens,

		User:      handler.NewUserHandler(userSvc),
		Email:     handler.NewEmailHandler(emailSvc),
		Community: handler.NewCommunityHandler(communitySvc),
		Post:      handler.NewPostHandler(postSvc),
		Admin:     handler.NewAdminHandler(adminSvc),
		Chat:      handler.NewChatHandler(chatSvc, webhook),
		Upload:    handler.NewUploadHandler(uploadSvc),
	})

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
