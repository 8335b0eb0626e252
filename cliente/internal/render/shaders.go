package render

const cubeInstancedVertexShader = `
#version 330

in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
in mat4 instanceTransform;

uniform mat4 mvp;

out vec2 fragTexCoord;
out vec3 fragNormal;

void main()
{
    fragTexCoord = vertexTexCoord;
    // As instâncias são translações puras, então a normal dispensa a matriz
    // normal completa.
    fragNormal = mat3(instanceTransform) * vertexNormal;
    gl_Position = mvp * instanceTransform * vec4(vertexPosition, 1.0);
}
`

const cubeFragmentShader = `
#version 330

in vec2 fragTexCoord;
in vec3 fragNormal;

uniform sampler2D texture0;
uniform vec4 colDiffuse;

out vec4 finalColor;

void main()
{
    vec4 texelColor = texture(texture0, fragTexCoord);
    if (texelColor.a < 0.1) discard;

    // Iluminação direcional básica, no estilo flat dos voxels
    vec3 lightDir = normalize(vec3(0.5, 1.0, 0.3));
    float diff = max(dot(normalize(fragNormal), lightDir), 0.0);
    vec3 ambient = vec3(0.45, 0.45, 0.45);
    vec3 light = ambient + vec3(0.55) * diff;

    vec4 color = texelColor * colDiffuse;
    color.rgb *= light;

    finalColor = color;
}
`
