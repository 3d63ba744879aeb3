package boot

import (
	"awm/src/common"
	"awm/src/db"
	"awm/src/lib"
	"awm/src/models"
	"awm/src/types"
	"awm/src/utils"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Profile{},
		&models.Billboard{},
		&models.Booking{},
		&models.Campaign{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitBroker() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == string(types.Local) {
		go lib.KafkaCreateTopics(
			utils.WithSuffix("Emails"),
			utils.WithSuffix("PaymentsReconcile"),
			utils.WithSuffix("PaymentEvents"),
		)
	} else {
		go common.SNSSubscribes()
	}
	common.Consumers()
}

// InitScheduler starts the background scheduler with the pending booking
// expiry sweep.
func InitScheduler() {
	jobId, err := lib.CreateCronJob(func(maxAge time.Duration) {
		common.ExpirePendingBookings(maxAge)
	}, 15*time.Minute, 24*time.Hour)
	if err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s\n", *jobId)
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	log.Println("Jobs in queue:", len(sched.Jobs()))
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}

func DownloadSDKFileFromS3() {
	cwd, _ := os.Getwd()
	log.Printf("[S3] cwd:%s\n", cwd)
	filename := "admin-sdk-credentials.json"
	sdkFilePath := path.Join(os.Getenv("SECRETS_DIR"), filename)
	_, err := os.Stat(sdkFilePath)
	if errors.Is(err, os.ErrNotExist) {
		log.Println("File not found. Downloading...")
		client := lib.AWSGetS3Client()
		adminSdkObjectKey := filename
		secretsBucket := os.Getenv("S3_SECRETS_BUCKET")
		object, err := client.GetObject(context.Background(), &s3.GetObjectInput{
			Bucket: aws.String(secretsBucket),
			Key:    aws.String(adminSdkObjectKey),
		})
		if err != nil {
			log.Printf("[S3] Error retrieving object: %s\n", err.Error())
			return
		}
		defer object.Body.Close()
		file, err := os.Create(sdkFilePath)
		if err != nil {
			log.Printf("Could not create file %s: %s\n", filename, err.Error())
			return
		}
		defer file.Close()
		body, err := io.ReadAll(object.Body)
		if err != nil {
			log.Printf("Couldn't read object body from %s: %s\n", filename, err.Error())
			return
		}
		_, err = file.Write(body)
		if err != nil {
			log.Printf("Error writing to file: %s\n", err.Error())
			return
		}
		log.Println("File has been written")
		return
	}
	log.Println("File exists!")
}
