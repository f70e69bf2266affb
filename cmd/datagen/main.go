// Command datagen produces synthetic Vietnamese training data with the chat
// model, one JSON object per line.
//
// Two modes:
//
//	-mode qa      question/answer pairs about makeup topics, for evaluating
//	              and fine-tuning the tutoring prompts
//	-mode intent  single utterances labelled with their intent, feeding the
//	              BERT fine-tuning job that exports the ONNX intent model
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"glamvoice/internal/ai"
	"glamvoice/internal/config"
)

var qaTopics = []string{
	"thoa kem nền bằng tay cho người khiếm thị",
	"chọn và thoa son môi không cần gương",
	"đánh má hồng theo mốc xương gò má",
	"kẻ chân mày bằng khuôn dán",
	"tẩy trang và chăm sóc da buổi tối",
	"phân biệt các loại cọ trang điểm bằng xúc giác",
}

var intentInstructions = map[string]string{
	"greeting":  "lời chào mở đầu cuộc trò chuyện",
	"smalltalk": "câu trò chuyện xã giao không phải câu hỏi chuyên môn",
	"question":  "câu hỏi cụ thể về cách trang điểm hoặc chăm sóc da dành cho người khiếm thị",
	"thanks":    "lời cảm ơn sau khi được giúp đỡ",
	"feedback":  "góp ý hoặc nhận xét về câu trả lời của trợ lý",
	"off-topic": "câu hỏi hoàn toàn ngoài chủ đề trang điểm, ví dụ thời tiết, bóng đá, nấu ăn",
}

type qaPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Topic    string `json:"topic"`
}

type utterance struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

func main() {
	var (
		mode    = flag.String("mode", "qa", "what to generate: qa or intent")
		count   = flag.Int("n", 40, "items per topic (qa) or per label (intent)")
		outPath = flag.String("out", "", "output JSONL file (default <mode>-train.jsonl)")
	)
	flag.Parse()

	if *outPath == "" {
		*outPath = *mode + "-train.jsonl"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	client := ai.NewOpenAICompatibleClient()
	chatCfg := ai.ChatConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("create output file failed: %v", err)
	}
	defer out.Close()
	encoder := json.NewEncoder(out)

	var total int
	switch *mode {
	case "qa":
		total, err = generateQA(client, chatCfg, encoder, *count)
	case "intent":
		total, err = generateIntents(client, chatCfg, encoder, *count)
	default:
		log.Fatalf("unknown mode %q, want qa or intent", *mode)
	}
	if err != nil {
		log.Fatalf("generation failed: %v", err)
	}
	log.Printf("wrote %d samples to %s", total, *outPath)
}

func generateQA(client *ai.OpenAICompatibleClient, cfg ai.ChatConfig, encoder *json.Encoder, perTopic int) (int, error) {
	total := 0
	for _, topic := range qaTopics {
		prompt := fmt.Sprintf(
			"Hãy tạo %d cặp hỏi-đáp tiếng Việt về chủ đề: %s. Câu hỏi do một người khiếm thị đặt ra, câu trả lời mô tả từng bước theo cảm giác của tay, không dựa vào màu sắc hay gương. Định dạng mỗi cặp trên hai dòng: dòng 'H: ...' rồi dòng 'Đ: ...'.",
			perTopic, topic,
		)
		raw, err := complete(client, cfg, prompt)
		if err != nil {
			return total, fmt.Errorf("topic %q: %w", topic, err)
		}

		var question string
		for _, line := range strings.Split(raw, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "H:"):
				question = strings.TrimSpace(strings.TrimPrefix(line, "H:"))
			case strings.HasPrefix(line, "Đ:") && question != "":
				answer := strings.TrimSpace(strings.TrimPrefix(line, "Đ:"))
				if answer == "" {
					continue
				}
				if err := encoder.Encode(qaPair{Question: question, Answer: answer, Topic: topic}); err != nil {
					return total, err
				}
				total++
				question = ""
			}
		}
		log.Printf("topic %q done", topic)
	}
	return total, nil
}

func generateIntents(client *ai.OpenAICompatibleClient, cfg ai.ChatConfig, encoder *json.Encoder, perLabel int) (int, error) {
	total := 0
	for label, instruction := range intentInstructions {
		prompt := fmt.Sprintf(
			"Hãy viết %d câu tiếng Việt khác nhau mà một người khiếm thị có thể gõ cho trợ lý dạy trang điểm. Mỗi câu thuộc loại: %s. Mỗi câu một dòng, không đánh số, không giải thích.",
			perLabel, instruction,
		)
		raw, err := complete(client, cfg, prompt)
		if err != nil {
			return total, fmt.Errorf("label %q: %w", label, err)
		}

		for _, line := range strings.Split(raw, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
			if line == "" {
				continue
			}
			if err := encoder.Encode(utterance{Text: line, Label: label}); err != nil {
				return total, err
			}
			total++
		}
		log.Printf("label %q done", label)
	}
	return total, nil
}

func complete(client *ai.OpenAICompatibleClient, cfg ai.ChatConfig, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	return client.Complete(ctx, cfg, []ai.ChatMessage{{Role: "user", Content: prompt}})
}
