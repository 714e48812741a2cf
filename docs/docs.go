// Package docs 注册 Swagger 文档，配合 gin-swagger 在 /swagger/index.html 提供接口说明。
// 文档本体在 docTemplate 中手工维护，新增或调整接口时需要同步更新，
// 各接口的摘要与 handler 注释保持一致。
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/sources": {
            "get": {
                "produces": ["application/json"],
                "tags": ["源文本"],
                "summary": "获取源文本列表",
                "parameters": [
                    {"type": "integer", "description": "页码，默认1", "name": "page", "in": "query"},
                    {"type": "integer", "description": "每页条数，默认20，上限100", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["源文本"],
                "summary": "上传源文本",
                "parameters": [
                    {"type": "file", "description": "源文本文件（纯文本，支持 utf-8/utf-16/latin-1 等编码）", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "展示标题（可选）", "name": "title", "in": "formData"}
                ],
                "responses": {"201": {"description": "成功响应，data 为上传结果", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/sources/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["源文本"],
                "summary": "获取源文本详情",
                "parameters": [{"type": "string", "description": "源文本ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["源文本"],
                "summary": "删除源文本",
                "parameters": [{"type": "string", "description": "源文本ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/sources/{id}/download": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["源文本"],
                "summary": "下载源文本",
                "parameters": [{"type": "string", "description": "源文本ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "文件流", "schema": {"type": "file"}}}
            }
        },
        "/api/v1/runs": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["运行管理"],
                "summary": "创建分解运行",
                "parameters": [{"description": "创建运行请求", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "成功响应，data 为完整分解结果", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/runs/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["运行管理"],
                "summary": "获取运行详情",
                "parameters": [{"type": "string", "description": "运行ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/runs/{id}/scenes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["运行管理"],
                "summary": "获取场景列表",
                "parameters": [{"type": "string", "description": "运行ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/runs/{id}/prompts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["运行管理"],
                "summary": "获取分镜提示词列表",
                "parameters": [{"type": "string", "description": "运行ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/runs/{id}/characters": {
            "get": {
                "produces": ["application/json"],
                "tags": ["运行管理"],
                "summary": "获取角色列表",
                "parameters": [{"type": "string", "description": "运行ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/runs/{id}/narration": {
            "get": {
                "produces": ["application/json"],
                "tags": ["运行管理"],
                "summary": "获取旁白列表",
                "parameters": [{"type": "string", "description": "运行ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/runs/{id}/sfx": {
            "get": {
                "produces": ["application/json"],
                "tags": ["运行管理"],
                "summary": "获取音效线索列表",
                "parameters": [{"type": "string", "description": "运行ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/runs/{id}/tts-chunks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["运行管理"],
                "summary": "获取语音分片列表",
                "parameters": [{"type": "string", "description": "运行ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/runs/{id}/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["运行管理"],
                "summary": "获取运行汇总",
                "parameters": [{"type": "string", "description": "运行ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/runs/{id}/checkpoint": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["运行管理"],
                "summary": "标记检查点",
                "parameters": [
                    {"type": "string", "description": "运行ID", "name": "id", "in": "path", "required": true},
                    {"description": "检查点标记请求", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/runs/{id}/render": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["运行管理"],
                "summary": "提交渲染",
                "parameters": [
                    {"type": "string", "description": "运行ID", "name": "id", "in": "path", "required": true},
                    {"description": "渲染提交请求", "name": "request", "in": "body", "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/preview/segment": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["预览"],
                "summary": "预览场景切分",
                "parameters": [{"description": "场景切分预览请求", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/preview/entities": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["预览"],
                "summary": "预览角色识别",
                "parameters": [{"description": "角色识别预览请求", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/preview/classify": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["预览"],
                "summary": "预览场景分类",
                "parameters": [{"description": "场景分类预览请求", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/preview/prompts": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["预览"],
                "summary": "预览镜头提示词",
                "parameters": [{"description": "镜头提示词预览请求", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/preview/moments": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["预览"],
                "summary": "预览关键时刻提取",
                "parameters": [{"description": "关键时刻提取预览请求", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "成功响应", "schema": {"type": "object"}}}
            }
        }
    }
}`

// SwaggerInfo 对外暴露，部署时可按环境覆盖 Host、Schemes 等字段
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fable API",
	Description:      "小说分解服务：将长篇小说文本拆解为场景、分镜提示词、角色卡、旁白、音效线索与语音分片。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
