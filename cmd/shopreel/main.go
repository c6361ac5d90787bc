package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/thakurp/shopreel/internal/access"
	"github.com/thakurp/shopreel/internal/adcopy"
	"github.com/thakurp/shopreel/internal/config"
	"github.com/thakurp/shopreel/internal/encoder"
	"github.com/thakurp/shopreel/internal/narrator"
	"github.com/thakurp/shopreel/internal/sharecode"
	"github.com/thakurp/shopreel/internal/system"
)

func main() {
	system.InitResourceLimits()

	configPtr := flag.String("config", "config.yaml", "Path to the YAML config file")
	flag.Parse()

	// .env keeps the OpenAI key out of the config file; absence is fine.
	if err := godotenv.Load(); err == nil {
		log.Printf("[*] loaded environment from .env")
	}

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("[!] config: %v", err)
	}

	if cfg.WorkDir != os.TempDir() {
		if err := os.MkdirAll(cfg.WorkDir, 0755); err != nil {
			log.Fatalf("[!] work dir %s: %v", cfg.WorkDir, err)
		}
	}

	videoEncoder := cfg.VideoEncoder
	if videoEncoder == "" {
		videoEncoder = system.GetBestH264Encoder()
	}
	log.Printf("[*] using video encoder: %s", videoEncoder)

	tts := narrator.NewTTSClient(cfg.TTSBaseURL)
	enc := encoder.New(tts, videoEncoder)
	enc.WorkDir = cfg.WorkDir
	enc.ImageSeconds = cfg.ImageSeconds

	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	renderGroup := gin.IRouter(router)
	if cfg.RedisAddr != "" {
		accessHandler := access.NewHandler(access.NewRedisStore(cfg.RedisAddr))
		accessHandler.Register(router)
		renderGroup = router.Group("/", accessHandler.Gate())
		log.Printf("[*] access limits enabled via redis at %s", cfg.RedisAddr)
	} else {
		log.Printf("[!] no redis configured, renders are unlimited")
	}
	encoder.NewHandler(enc).Register(renderGroup)

	sharecode.NewHandler(cfg.PublicBaseURL).Register(router)

	var primary adcopy.Generator
	if cfg.OpenAIKey != "" {
		primary = adcopy.NewOpenAIGenerator(cfg.OpenAIKey)
		log.Printf("[*] ad copy: openai generator")
	} else {
		log.Printf("[*] ad copy: template generator (no OPENAI_API_KEY)")
	}
	adcopy.NewHandler(primary, adcopy.TemplateGenerator{}).Register(router)

	log.Printf("[>] listening on %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("[!] server: %v", err)
	}
}
